package cmd

import (
	"strings"
	"testing"

	"github.com/theirongolddev/balancebuddy/internal/model"
)

func TestResolve(t *testing.T) {
	bills := []model.FixedExpense{
		{ID: "a1b2c3d4-0000", Name: "Rent"},
		{ID: "a1ffffff-0000", Name: "Power"},
		{ID: "b9999999-0000", Name: "rent"},
		{ID: "c0000000-0000", Name: "Phone"},
	}
	id := func(e model.FixedExpense) string { return e.ID }
	name := func(e model.FixedExpense) string { return e.Name }

	tests := []struct {
		ref     string
		want    string
		wantErr string
	}{
		{ref: "c0000000-0000", want: "c0000000-0000"},
		{ref: "PHONE", want: "c0000000-0000"},
		{ref: "power", want: "a1ffffff-0000"},
		{ref: "a1b", want: "a1b2c3d4-0000"},
		{ref: "rent", wantErr: "named"},
		{ref: "a1", wantErr: "matches 2"},
		{ref: "zzz", wantErr: "no bill"},
		{ref: "  ", wantErr: "no bill given"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolve(bills, tt.ref, "bill", id, name)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want {
				t.Errorf("got %s, want %s", got.ID, tt.want)
			}
		})
	}
}

func TestResolve_IDOnly(t *testing.T) {
	txs := []model.Transaction{{ID: "1234abcd-x", Category: "Food"}}
	if _, err := resolve(txs, "Food", "transaction", func(t model.Transaction) string { return t.ID }, nil); err == nil {
		t.Error("transactions must not resolve by category")
	}
	got, err := resolve(txs, "1234", "transaction", func(t model.Transaction) string { return t.ID }, nil)
	if err != nil || got.ID != "1234abcd-x" {
		t.Errorf("prefix lookup = %v, %v", got.ID, err)
	}
}
