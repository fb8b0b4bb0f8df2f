package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/model"
)

const otherCategory = "Other..."

// ScheduleValues backs the fixed income/expense form.
type ScheduleValues struct {
	Name   string
	Amount string
	Day    string
}

// Schedule converts the form values for the engine.
func (v ScheduleValues) Schedule() (budget.Schedule, error) {
	amount, err := cli.ParseAmount(v.Amount)
	if err != nil {
		return budget.Schedule{}, err
	}
	day, err := cli.ParseDay(v.Day)
	if err != nil {
		return budget.Schedule{}, err
	}
	return budget.Schedule{Name: strings.TrimSpace(v.Name), Amount: amount, DueDay: day}, nil
}

// TransactionValues backs the add-transaction form.
type TransactionValues struct {
	Type        string
	Amount      string
	Category    string
	Custom      string
	Description string
	Fixed       bool
}

// NewTransaction converts the form values for the engine.
func (v TransactionValues) NewTransaction() (budget.NewTransaction, error) {
	amount, err := cli.ParseAmount(v.Amount)
	if err != nil {
		return budget.NewTransaction{}, err
	}
	category := v.Category
	if category == otherCategory {
		category = v.Custom
	}
	typ := model.TxType(v.Type)
	return budget.NewTransaction{
		Amount:      amount,
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(v.Description),
		Type:        typ,
		Fixed:       v.Fixed && typ == model.Expense,
	}, nil
}

func validatePositive(s string) error {
	d, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func validateNonNegative(s string) error {
	d, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func validateAnyAmount(s string) error {
	_, err := cli.ParseAmount(s)
	return err
}

func validateDay(s string) error {
	_, err := cli.ParseDay(s)
	return err
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// ScheduleForm asks for one fixed income or expense.
func ScheduleForm(title string, v *ScheduleValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Salary, Rent, Phone...").
				Value(&v.Name).
				Validate(validateName),
			huh.NewInput().
				Title("Amount").
				Value(&v.Amount).
				Validate(validatePositive),
			huh.NewInput().
				Title("Day of month (1-31)").
				Value(&v.Day).
				Validate(validateDay),
		).Title(title),
	).WithTheme(huh.ThemeCharm())
}

// TransactionForm asks for a one-off income or expense.
func TransactionForm(categories []string, v *TransactionValues) *huh.Form {
	if v.Type == "" {
		v.Type = string(model.Expense)
	}
	options := huh.NewOptions(append(append([]string{}, categories...), otherCategory)...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(model.Expense)),
					huh.NewOption("Income", string(model.Income)),
				).
				Value(&v.Type),
			huh.NewInput().
				Title("Amount").
				Value(&v.Amount).
				Validate(validatePositive),
			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&v.Category),
		).Title("New transaction"),
		huh.NewGroup(
			huh.NewInput().
				Title("Category name").
				Value(&v.Custom).
				Validate(validateName),
		).WithHideFunc(func() bool { return v.Category != otherCategory }),
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Placeholder("optional").
				Value(&v.Description),
			huh.NewConfirm().
				Title("Recurring monthly bill?").
				Description("Registers the category as a fixed expense if it is not one yet.").
				Value(&v.Fixed),
		).WithHideFunc(func() bool { return v.Type != string(model.Expense) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Placeholder("optional").
				Value(&v.Description),
		).WithHideFunc(func() bool { return v.Type == string(model.Expense) }),
	).WithTheme(huh.ThemeCharm())
}

// AmountForm asks for a single positive amount.
func AmountForm(title string, v *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(v).
				Validate(validatePositive),
		),
	).WithTheme(huh.ThemeCharm())
}
