package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/cli"
)

type wizardStage int

const (
	stageBasics wizardStage = iota
	stageAskIncome
	stageIncome
	stageAskExpense
	stageExpense
	stageDone
)

// WizardValues backs the first page of the onboarding wizard.
type WizardValues struct {
	Balance  string
	Goal     string
	Currency string
	Theme    string
}

// Wizard walks through onboarding one form at a time: starting balance and
// savings goal, then any number of fixed incomes and fixed expenses. Callers
// run Form, then call Advance once it completes, until Done.
type Wizard struct {
	Values WizardValues

	themes []string
	stage  wizardStage
	sched  ScheduleValues
	more   bool
	result budget.Onboarding
}

// NewWizard starts a wizard offering the given theme names.
func NewWizard(currency, theme string, themes []string) *Wizard {
	return &Wizard{
		Values: WizardValues{Balance: "0", Goal: "0", Currency: currency, Theme: theme},
		themes: themes,
	}
}

// Done reports whether every step has been answered.
func (w *Wizard) Done() bool { return w.stage == stageDone }

// Onboarding returns the collected answers.
func (w *Wizard) Onboarding() budget.Onboarding { return w.result }

// Form returns the form for the current step, or nil when done.
func (w *Wizard) Form() *huh.Form {
	switch w.stage {
	case stageBasics:
		return w.basicsForm()
	case stageAskIncome:
		return confirmForm(w.askTitle("income", len(w.result.Incomes)), &w.more)
	case stageIncome:
		return ScheduleForm("Fixed income", &w.sched)
	case stageAskExpense:
		return confirmForm(w.askTitle("expense", len(w.result.Expenses)), &w.more)
	case stageExpense:
		return ScheduleForm("Fixed expense", &w.sched)
	}
	return nil
}

// Advance consumes the answers of the completed form and moves on.
func (w *Wizard) Advance() error {
	switch w.stage {
	case stageBasics:
		balance, err := cli.ParseAmount(w.Values.Balance)
		if err != nil {
			return err
		}
		goal, err := cli.ParseAmount(w.Values.Goal)
		if err != nil {
			return err
		}
		w.result.StartingBalance = balance
		w.result.SavingsGoalWeekly = goal
		w.stage = stageAskIncome

	case stageAskIncome:
		w.stage = w.branch(stageIncome, stageAskExpense)

	case stageIncome:
		sc, err := w.sched.Schedule()
		if err != nil {
			return err
		}
		w.result.Incomes = append(w.result.Incomes, sc)
		w.stage = stageAskIncome

	case stageAskExpense:
		w.stage = w.branch(stageExpense, stageDone)

	case stageExpense:
		sc, err := w.sched.Schedule()
		if err != nil {
			return err
		}
		w.result.Expenses = append(w.result.Expenses, sc)
		w.stage = stageAskExpense
	}
	return nil
}

func (w *Wizard) branch(yes, no wizardStage) wizardStage {
	next := no
	if w.more {
		next = yes
	}
	w.more = false
	w.sched = ScheduleValues{}
	return next
}

func (w *Wizard) askTitle(kind string, have int) string {
	if have == 0 {
		return "Add a fixed " + kind + "?"
	}
	return "Add another fixed " + kind + "?"
}

func (w *Wizard) basicsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to BalanceBuddy").
				Description("A few questions to set up your monthly budget."),
			huh.NewInput().
				Title("Current balance").
				Value(&w.Values.Balance).
				Validate(validateAnyAmount),
			huh.NewInput().
				Title("Weekly savings goal").
				Description("Set 0 to skip.").
				Value(&w.Values.Goal).
				Validate(validateNonNegative),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Value(&w.Values.Currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(w.themes...)...).
				Value(&w.Values.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

func confirmForm(title string, v *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(v),
		),
	).WithTheme(huh.ThemeCharm())
}
