package entities

import (
	"fmt"
	"strings"
)

// DefaultDeliveryNote labels supplier deliveries without a note of their own
const DefaultDeliveryNote = "Delivery"

// Delivery is a supplier commitment to deliver a quantity of a part on a date
type Delivery struct {
	Date     string     `json:"date"`
	PartNo   PartNumber `json:"part_no"`
	Quantity Quantity   `json:"quantity"`
	Note     string     `json:"note"`
}

// NewDelivery creates a validated Delivery
func NewDelivery(date string, partNo PartNumber, quantity Quantity, note string) (*Delivery, error) {
	isoDate, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	partNo = PartNumber(strings.TrimSpace(string(partNo)))
	if partNo == "" {
		return nil, fmt.Errorf("part number cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity.String())
	}
	note = strings.TrimSpace(note)
	if note == "" {
		note = DefaultDeliveryNote
	}

	return &Delivery{
		Date:     isoDate,
		PartNo:   partNo,
		Quantity: quantity,
		Note:     note,
	}, nil
}
