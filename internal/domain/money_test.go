package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCentsFromDecimal(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.99", want: 1299},
		{in: "0", want: 0},
		{in: "100000", want: MaxPriceCents},
		{in: "100000.01", wantErr: true},
		{in: "92233720368547758.07", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1.005", wantErr: true},
	}
	for _, tc := range cases {
		got, err := CentsFromDecimal("price", decimal.RequireFromString(tc.in))
		if tc.wantErr {
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "price" {
				t.Fatalf("CentsFromDecimal(%s): expected price validation error, got %d, %v", tc.in, got, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("CentsFromDecimal(%s) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
	}
}
