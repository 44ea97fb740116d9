package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shortage/pkg/interfaces/cli/commands"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		want    any
		wantErr bool
	}{
		{"report", "report", []string{"-data", "d", "-shortage-only"}, &commands.ReportCommand{}, false},
		{"plan add", "plan", []string{"add", "-date", "2024-03-01", "-model", "M", "-qty", "5"}, &commands.PlanCommand{}, false},
		{"plan help", "plan", nil, &commands.PlanCommand{}, false},
		{"watch", "watch", []string{"-debounce", "1s"}, &commands.WatchCommand{}, false},
		{"serve", "serve", []string{"-addr", ":9090"}, &commands.ServeCommand{}, false},
		{"help", "help", nil, nil, false},
		{"unknown", "purge", nil, nil, true},
		{"bad flag", "report", []string{"-nope"}, nil, true},
		{"bad duration", "watch", []string{"-debounce", "soon"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parse(tt.command, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, cmd)
				return
			}
			assert.IsType(t, tt.want, cmd)
		})
	}
}

func TestDefaultDebounce(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, commands.DefaultDebounce)
}
