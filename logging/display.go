package logging

import (
	"errors"
	"fmt"
	"midend/common"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// PrintTable renders rows as a table with a header row.  Nothing is printed
// at the silent log level.
func PrintTable(header []string, rows [][]string) error {
	if logger.LogLevel == LogLevelSilent {
		return nil
	}

	data := pterm.TableData{header}
	data = append(data, rows...)

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// -----------------------------------------------------------------------------
// This section contains the display functions for the different kinds of
// messages that can be logged.

func (ce *ConfigError) display() {
	PrintErrorMessage(ce.Kind+" Error", errors.New(ce.Message))
}

func (mm *ModuleMessage) display() {
	if mm.IsError {
		PrintErrorMessage("Module Error", fmt.Errorf("%s: %s", mm.ModName, mm.Message))
	} else {
		PrintWarningMessage("Warning", mm.ModName+": "+mm.Message)
	}
}

func (pm *PassMessage) display() {
	fmt.Print("\n-- ")
	if pm.IsError {
		ErrorStyleBG.Print("Pass " + capitalize(pm.Status))
	} else {
		WarnStyleBG.Print("Pass Warning")
	}

	fmt.Print(" " + pm.PassName + " ")
	InfoColorFG.Println(pm.ModName)

	if pm.Diagnostic != "" {
		fmt.Println(pm.Diagnostic)
	}
}

// capitalize upper-cases the first letter of a status word such as `failed`
func capitalize(word string) string {
	if word == "" {
		return word
	}

	return strings.ToUpper(word[:1]) + word[1:]
}

const fatalErrorPostlude = `
This is likely a bug in the pass pipeline definition or in midend itself.`

func displayFatalError(msg string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Fatal Error ")
	ErrorColorFG.Println(msg)
	InfoColorFG.Println(fatalErrorPostlude)
}

// -----------------------------------------------------------------------------

// displayHeader displays the tool information before starting a run
func displayHeader(pipelinePath string, moduleCount int) {
	fmt.Print("midend ")
	InfoColorFG.Print("v" + common.MidendVersion)
	fmt.Print(" -- pipeline: ")
	if pipelinePath == "" {
		InfoColorFG.Println("builtin")
	} else {
		InfoColorFG.Println(pipelinePath)
	}

	if moduleCount > 1 {
		fmt.Printf("transforming %d modules\n", moduleCount)
	}
}

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Transforming")

// displayBeginPhase displays the beginning of a phase of the run
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", padding(phase))
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a phase of the run
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase+strings.Repeat(" ", padding(currentPhase)),
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + strings.Repeat(" ", padding(currentPhase)))
		}

		phaseSpinner = nil
	}
}

func padding(phase string) int {
	if len(phase) > maxPhaseLength {
		return 2
	}

	return maxPhaseLength - len(phase) + 2
}

// displayFinished displays the closing message of a run
func displayFinished(success bool, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}
}
