package export

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrWizardCancelled is returned when the user backs out of the wizard.
var ErrWizardCancelled = errors.New("export cancelled")

// Choice is the wizard's outcome.
type Choice struct {
	Format string // "png", "svg" or "both"
	Path   string
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard prompts for snapshot format and output path. Intended for the
// command-line export flow; the in-dashboard export key uses defaults
// instead.
func RunWizard(defaultPath string) (Choice, error) {
	choice := Choice{
		Format: "svg",
		Path:   defaultPath,
	}
	confirmed := true

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Snapshot format").
				Options(
					huh.NewOption("SVG (vector, small)", "svg"),
					huh.NewOption("PNG (raster)", "png"),
					huh.NewOption("Both", "both"),
				).
				Value(&choice.Format),
			huh.NewInput().
				Title("Output path").
				Placeholder(defaultPath).
				Value(&choice.Path),
			huh.NewConfirm().
				Title("Write snapshot?").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return Choice{}, err
	}
	if !confirmed {
		return Choice{}, ErrWizardCancelled
	}
	if strings.TrimSpace(choice.Path) == "" {
		choice.Path = defaultPath
	}
	return choice, nil
}
