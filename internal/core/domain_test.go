package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Title:    "groceries",
		Amount:   Money{Cents: 1250},
		Category: "Food",
		Date:     time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Title: "", Amount: Money{Cents: 1}, Category: "Food"},
		{Title: "  ", Amount: Money{Cents: 1}, Category: "Food"},
		{Title: "a", Amount: Money{Cents: 0}, Category: "Food"},
		{Title: "a", Amount: Money{Cents: 1}, Category: ""},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIncomeValidate(t *testing.T) {
	good := Income{
		Title:  "salary",
		Amount: Money{Cents: 500000},
		Source: "Employer",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Income{Title: "a", Amount: Money{Cents: 1}, Source: ""}).Validate(); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{Email: "a@b.test"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (User{Email: ""}).Validate(); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if err := (User{Email: "nope"}).Validate(); err == nil {
		t.Fatalf("expected error for malformed email")
	}
}

func TestCanAccess(t *testing.T) {
	cases := []struct {
		user, owner int64
		want        bool
	}{
		{1, 1, true},
		{1, 2, false},
		{0, 0, false}, // anonymous never owns anything
		{2, 0, false},
	}
	for i, tc := range cases {
		if got := CanAccess(tc.user, tc.owner); got != tc.want {
			t.Fatalf("case %d: CanAccess(%d, %d) = %v, want %v", i, tc.user, tc.owner, got, tc.want)
		}
	}
}
