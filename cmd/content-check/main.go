// Command content-check validates scenario content and lists saved run
// reports.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tatianab/crisis-desk/internal/catalog"
	"github.com/tatianab/crisis-desk/internal/config"
	"github.com/tatianab/crisis-desk/internal/models"
	"gopkg.in/yaml.v3"
)

var errInvalid = errors.New("content has problems")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("content-check", flag.ContinueOnError)
	fs.SetOutput(out)
	dir := fs.String("content", "", "directory of content files (default: embedded content)")
	reports := fs.String("reports", "", "report directory (default: CRISIS_REPORT_DIR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := "validate"
	if fs.NArg() > 0 {
		cmd = fs.Arg(0)
	}
	switch cmd {
	case "validate":
		return validate(*dir, out)
	case "scenarios":
		return listScenarios(*dir, out)
	case "reports":
		return listReports(*reports, out)
	case "template":
		return writeTemplate(strings.Join(fs.Args()[1:], " "), out)
	default:
		return fmt.Errorf("unknown command %q (validate, scenarios, reports, template)", cmd)
	}
}

func loadLibrary(dir string) (*catalog.Library, error) {
	if dir == "" {
		return catalog.LoadEmbedded()
	}
	return catalog.LoadDir(dir)
}

func validate(dir string, out io.Writer) error {
	lib, err := loadLibrary(dir)
	if err != nil {
		// the loader reports every broken file at once, one per line
		fmt.Fprintln(out, "FAIL")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(out, "     %s\n", line)
		}
		return errInvalid
	}
	for _, profile := range lib.Profiles() {
		for _, lang := range lib.Languages(profile) {
			ids, err := lib.ListScenarioIDs(profile, lang)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ok   %s/%s (%d scenarios)\n", profile, lang, len(ids))
		}
	}
	return nil
}

func listScenarios(dir string, out io.Writer) error {
	lib, err := loadLibrary(dir)
	if err != nil {
		return err
	}
	for _, profile := range lib.Profiles() {
		for _, lang := range lib.Languages(profile) {
			ids, err := lib.ListScenarioIDs(profile, lang)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s/%s: %s\n", profile, lang, strings.Join(ids, ", "))
		}
	}
	return nil
}

func listReports(dir string, out io.Writer) error {
	if dir == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		dir = cfg.ReportDir
	}
	ids, err := models.ListReports(dir)
	if err != nil {
		return err
	}
	for _, id := range ids {
		r, err := models.LoadReport(dir, id)
		if err != nil {
			fmt.Fprintf(out, "%s  (unreadable: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(out, "%s  %s/%s  %d crises  score %.0f\n", id, r.Profile, r.Language, len(r.Turns), r.Score)
	}
	return nil
}

func writeTemplate(title string, out io.Writer) error {
	if title == "" {
		title = "New Crisis"
	}
	s := catalog.NewScenarioTemplate(title)
	id := strings.ToLower(strings.Join(strings.Fields(title), "_"))
	data, err := yaml.Marshal(map[string]models.Scenario{id: s})
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
