package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Date  string  `validate:"required,ymd"`
	Hour  string  `validate:"required,hhmm"`
	IDs   []int64 `validate:"required,min=1,unique,dive,gt=0"`
	Total float64 `validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	errs := Validate(sample{Date: "2026-03-01", Hour: "09:30", IDs: []int64{3, 5}, Total: 40})
	assert.Nil(t, errs)
}

func TestValidate_Fields(t *testing.T) {
	errs := Validate(sample{Date: "01/03/2026", Hour: "25:00", IDs: []int64{3, 3}, Total: -1})
	assert.Equal(t, "ymd", errs["Date"])
	assert.Equal(t, "hhmm", errs["Hour"])
	assert.Equal(t, "unique", errs["IDs"])
	assert.Equal(t, "gte", errs["Total"])
}

func TestValidate_EmptyServices(t *testing.T) {
	errs := Validate(sample{Date: "2026-03-01", Hour: "10:00", IDs: []int64{}})
	assert.Contains(t, errs, "IDs")
}

func TestValidate_UsesJSONNames(t *testing.T) {
	type req struct {
		BarberID int64  `json:"barber_id" validate:"required"`
		Notes    string `json:"-" validate:"max=3"`
	}
	errs := Validate(req{})
	assert.Equal(t, "required", errs["barber_id"])
}
