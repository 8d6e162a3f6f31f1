// cmd/advisor/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"attrition-advisor/internal/advisor"
	"attrition-advisor/internal/common/config"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/engagement"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/report"
	"attrition-advisor/internal/roster"
	"attrition-advisor/internal/schema"
)

func main() {
	employee := flag.String("employee", "", "roster employee to analyze (skips the interview)")
	list := flag.Bool("list", false, "list roster employees and exit")
	out := flag.String("out", "", "write the consultation report markdown to this file on exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	// Console noise stays out of the interview; warnings still surface.
	zapLog := logger.New("warn", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	featureSchema, err := schema.Load(cfg.Model.ArtifactPath, cfg.Model.FeaturesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "model schema load failed: %v\n", err)
		os.Exit(1)
	}

	emp, err := roster.Load(cfg.Roster.Path, featureSchema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roster load failed: %v\n", err)
		os.Exit(1)
	}

	if *list {
		for _, name := range emp.Names() {
			fmt.Println(name)
		}
		return
	}

	engine := engagement.NewEngine(engagement.NewClient(&cfg.GenAI), log)
	adv := advisor.New(featureSchema, cfg.Model.Threshold, engine, log)

	stdin := bufio.NewScanner(os.Stdin)

	rec, err := pickRecord(stdin, emp, featureSchema, *employee)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var assessment advisor.Assessment
	err = retryWithBackoff(func() error {
		var err error
		assessment, err = adv.Assess(ctx, rec)
		if err != nil {
			return err
		}
		return assessment.EngagementErr
	}, 3, time.Second, zapLog, "consultation")
	if err != nil && assessment.Consultation.ID == "" {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	printPrediction(assessment)

	if assessment.EngagementErr != nil {
		fmt.Println("\nThe retention advisor is unavailable right now; the prediction above still stands.")
		return
	}

	fmt.Println("\n--- Retention Strategy ---")
	fmt.Println(assessment.Analysis)
	fmt.Println("\nSuggested questions:")
	for _, q := range assessment.SuggestedQuestions {
		fmt.Printf("  - %s\n", q)
	}

	c := chatLoop(ctx, stdin, adv, assessment.Consultation)

	if *out != "" {
		rendered := report.Render(c, time.Now())
		if err := os.WriteFile(*out, []byte(rendered.Markdown), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "report write failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *out)
	}
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return err
}

// pickRecord resolves the employee to analyze: the -employee flag, a
// roster pick, or a full interview over the schema's questions.
func pickRecord(stdin *bufio.Scanner, emp *roster.Roster, s *schema.FeatureSchema, flagName string) (models.EmployeeRecord, error) {
	if flagName != "" {
		entry, ok := emp.Find(flagName)
		if !ok {
			return models.EmployeeRecord{}, fmt.Errorf("employee %q is not on the roster (use -list)", flagName)
		}
		return entry.Record, nil
	}

	fmt.Println("Employees on the roster:")
	for i, name := range emp.Names() {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
	fmt.Println("Pick a number, or press Enter to describe an employee manually.")

	answer := promptLine(stdin, "> ")
	if answer != "" {
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > emp.Len() {
			return models.EmployeeRecord{}, fmt.Errorf("invalid pick %q", answer)
		}
		return emp.Entries()[n-1].Record, nil
	}

	return interview(stdin, s)
}

// interview asks the schema's questions one by one. Empty answers take
// the default when there is one; required fields without defaults are
// asked again.
func interview(stdin *bufio.Scanner, s *schema.FeatureSchema) (models.EmployeeRecord, error) {
	name := ""
	for name == "" {
		name = promptLine(stdin, "Employee name: ")
	}
	rec := models.NewEmployeeRecord(name)

	for i := range s.Fields {
		field := &s.Fields[i]
		for {
			value, ok := askField(stdin, field)
			if !ok {
				break // blank answer, default applies
			}
			if value != nil {
				rec.Fields[field.Name] = *value
				break
			}
			fmt.Println("  Sorry, that answer does not fit; try again.")
		}
	}
	return rec, nil
}

// askField asks one question. Returns (nil, true) for an unusable answer,
// (nil, false) for an accepted blank, and (&v, true) for a parsed value.
func askField(stdin *bufio.Scanner, field *schema.Field) (*models.FieldValue, bool) {
	question := field.Question
	if question == "" {
		question = field.Name
	}

	if field.Type == schema.FieldChoice {
		fmt.Printf("%s\n", question)
		for _, label := range field.Labels() {
			fmt.Printf("  - %s\n", label)
		}
	} else {
		fmt.Printf("%s\n", question)
	}
	if field.Default != nil {
		fmt.Printf("  (Enter for %s)\n", field.Default.String())
	}

	answer := promptLine(stdin, "> ")
	if answer == "" {
		if field.Default == nil && field.Required {
			fmt.Println("  This one is required.")
			return nil, true
		}
		return nil, false
	}

	switch field.Type {
	case schema.FieldNumber:
		num, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return nil, true
		}
		if field.Min != nil && num < *field.Min {
			return nil, true
		}
		if field.Max != nil && num > *field.Max {
			return nil, true
		}
		v := models.Number(num)
		return &v, true
	default:
		if _, known := field.ColumnFor(answer); !known {
			return nil, true
		}
		v := models.Label(answer)
		return &v, true
	}
}

func printPrediction(a advisor.Assessment) {
	p := a.Scored.Prediction
	fmt.Printf("\nAttrition probability: %.1f%%  (tier: %s)\n", p.Probability*100, a.Scored.Tier)
	if p.Verdict {
		fmt.Printf("Verdict: likely to leave (threshold %.2f)\n", p.Threshold)
	} else {
		fmt.Printf("Verdict: likely to stay (threshold %.2f)\n", p.Threshold)
	}
	fmt.Println("\nContributing factors:")
	for i, f := range a.Scored.Factors {
		fmt.Printf("  %d. %s (%s risk)\n", i+1, f.Display, f.Direction)
	}
}

// chatLoop runs follow-up Q&A until the user leaves, returning the final
// consultation state.
func chatLoop(ctx context.Context, stdin *bufio.Scanner, adv *advisor.Advisor, c models.Consultation) models.Consultation {
	fmt.Println("\nAsk follow-up questions, or type \"exit\" to finish.")
	for {
		question := promptLine(stdin, "you> ")
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return c
		}

		updated, reply, err := adv.Chat(ctx, c, question)
		if err != nil {
			fmt.Println("The advisor did not answer; your question was not recorded. Try again.")
			continue
		}
		c = updated
		fmt.Printf("\nadvisor> %s\n\n", reply)
	}
}

func promptLine(stdin *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !stdin.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(stdin.Text())
}
