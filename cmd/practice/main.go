package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/windfall/lingo_practice/internal/apiclient"
	"github.com/windfall/lingo_practice/internal/config"
	"github.com/windfall/lingo_practice/internal/logger"
	"github.com/windfall/lingo_practice/internal/practice"
	"github.com/windfall/lingo_practice/internal/render"
	"github.com/windfall/lingo_practice/internal/speech"
)

// printSynthesizer renders speech as terminal output instead of audio.
type printSynthesizer struct{}

func (printSynthesizer) Speak(text, locale string, rate float64) error {
	fmt.Printf("[speaking %s] %s\n", locale, text)
	return nil
}

// terminalView renders flow state as plain text.
type terminalView struct{}

func (terminalView) ShowNotice(message string) {
	fmt.Println("! " + message)
}

func (terminalView) ShowInterim(text string) {
	fmt.Println("... " + text)
}

func (terminalView) ShowStage(s *practice.Session) {
	switch s.Stage {
	case practice.StageTranslationEntry:
		sentence, _ := s.Current()
		fmt.Println()
		fmt.Println(render.ProgressLine(s.CurrentIndex, len(s.Sentences)))
		fmt.Println("Translate: " + sentence.OriginalText)
	case practice.StageTranslationResult:
		tr := s.Attempt.Translation
		fmt.Printf("Similarity: %s (%s)\n", render.PercentLabel(tr.SimilarityScore), render.ScoreClass(tr.SimilarityScore))
		if tr.ModelTranslation != "" {
			fmt.Println("Model translation: " + tr.ModelTranslation)
		}
		if tr.AIFeedback != "" {
			fmt.Println("Feedback: " + tr.AIFeedback)
		}
		fmt.Println("Commands: pronounce | model <translation> | next")
	case practice.StagePronunciationEntry:
		if s.Attempt.PronunciationTarget != "" {
			fmt.Println("Read aloud: " + s.Attempt.PronunciationTarget)
		} else {
			fmt.Println("No reference translation; say your own version.")
		}
		if s.Attempt.CaptureStatus == practice.CaptureCaptured {
			fmt.Println("Captured: " + s.Attempt.CapturedText)
		}
		fmt.Println("Commands: say <text> | play | submit")
	case practice.StagePronunciationResult:
		pr := s.Attempt.Pronunciation
		fmt.Printf("Pronunciation: %s (%s)\n", render.PercentLabel(pr.PronunciationScore), render.ScoreClass(pr.PronunciationScore))
		fmt.Println("Expected: " + markLine(render.MarkExpected(pr.ExpectedWords, pr.Matched, pr.Missed)))
		fmt.Println("You said: " + markLine(render.MarkActual(pr.ActualWords, pr.Matched, pr.Extra)))
		fmt.Println("Commands: next")
	case practice.StageCompleted:
		fmt.Println()
		fmt.Println(render.CompletionMessage(len(s.Sentences)))
	}
}

// markLine renders word marks with terminal markers: +word matched, -word
// missed, ?word extra.
func markLine(marks []render.WordMark) string {
	parts := make([]string, 0, len(marks))
	for _, m := range marks {
		switch m.Class {
		case render.ClassWordMatched:
			parts = append(parts, "+"+m.Text)
		case render.ClassWordMissed:
			parts = append(parts, "-"+m.Text)
		case render.ClassWordExtra:
			parts = append(parts, "?"+m.Text)
		default:
			parts = append(parts, m.Text)
		}
	}
	return strings.Join(parts, " ")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config: "+err.Error())
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, "console")

	ctx := context.Background()
	api := apiclient.New(cfg.APIBaseURL, log)

	// Terminal builds have no microphone; captures are typed through the
	// stub recognizer with the "say" command.
	recognizer := &speech.StubRecognizer{}
	bridge := speech.NewBridge(recognizer, printSynthesizer{}, cfg.SpeechLocale, cfg.SpeechRate, log)
	flow := practice.NewFlowController(api, bridge, terminalView{}, log)

	in := bufio.NewScanner(os.Stdin)

	scriptID, mode, ok := pickScript(ctx, api, in)
	if !ok {
		return
	}
	if err := flow.Start(ctx, scriptID, mode); err != nil {
		os.Exit(1)
	}

	for {
		session := flow.Session()
		if session.Completed() {
			showProgress(ctx, api)
			return
		}

		switch session.Stage {
		case practice.StageTranslationEntry:
			fmt.Print("> ")
			if !in.Scan() {
				return
			}
			flow.SubmitTranslation(ctx, in.Text())

		case practice.StageTranslationResult:
			cmd, arg, quit := readCommand(in)
			if quit {
				return
			}
			switch cmd {
			case "pronounce":
				flow.BeginPronunciation()
			case "model":
				flow.AddModelTranslation(ctx, arg)
			case "next":
				flow.Next()
			default:
				fmt.Println("Commands: pronounce | model <translation> | next")
			}

		case practice.StagePronunciationEntry:
			cmd, arg, quit := readCommand(in)
			if quit {
				return
			}
			switch cmd {
			case "say":
				if err := flow.StartCapture(); err == nil {
					recognizer.EmitResult(arg, true)
					flow.StopCapture()
				}
			case "play":
				flow.PlayTarget()
			case "submit":
				flow.SubmitPronunciation(ctx)
			default:
				fmt.Println("Commands: say <text> | play | submit")
			}

		case practice.StagePronunciationResult:
			cmd, _, quit := readCommand(in)
			if quit {
				return
			}
			if cmd == "next" {
				flow.Next()
			}
		}
	}
}

// pickScript lists the scripts and reads a selection and practice mode.
func pickScript(ctx context.Context, api *apiclient.Client, in *bufio.Scanner) (string, string, bool) {
	scripts, err := api.ListScripts(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to list scripts: "+err.Error())
		return "", "", false
	}
	if len(scripts) == 0 {
		fmt.Println("No scripts yet. Create one through the API first.")
		return "", "", false
	}

	for i, s := range scripts {
		fmt.Printf("%d. %s\n", i+1, render.ScriptOptionLabel(s.Title, s.SentencesCount))
	}
	fmt.Print("Pick a script: ")
	if !in.Scan() {
		return "", "", false
	}
	choice, err := strconv.Atoi(strings.TrimSpace(in.Text()))
	if err != nil || choice < 1 || choice > len(scripts) {
		fmt.Println("Invalid selection.")
		return "", "", false
	}

	fmt.Print("Mode (sequential/random) [sequential]: ")
	if !in.Scan() {
		return "", "", false
	}
	mode := strings.TrimSpace(in.Text())
	if mode == "" {
		mode = "sequential"
	}
	return scripts[choice-1].ID, mode, true
}

// readCommand reads one line and splits it into command and argument. The
// second return is the rest of the line, not a single word.
func readCommand(in *bufio.Scanner) (string, string, bool) {
	fmt.Print("> ")
	if !in.Scan() {
		return "", "", true
	}
	line := strings.TrimSpace(in.Text())
	if line == "quit" || line == "exit" {
		return "", "", true
	}
	cmd, arg, _ := strings.Cut(line, " ")
	return cmd, strings.TrimSpace(arg), false
}

// showProgress prints the aggregated practice report.
func showProgress(ctx context.Context, api *apiclient.Client) {
	report, err := api.FetchProgress(ctx)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Scripts: %d  Sentences: %d  Sessions: %d\n",
		report.TotalScripts, report.TotalSentences, report.TotalPracticeSessions)
	fmt.Printf("Average translation score: %s\n", render.PercentLabel(report.AvgTranslationScore))
	fmt.Printf("Average pronunciation score: %s\n", render.PercentLabel(report.AvgPronunciationScore))
	for _, s := range report.RecentSessions {
		fmt.Printf("  %s  %s -> %s (%s)\n", s.PracticeDate, s.SentenceText, s.UserTranslation, render.PercentLabel(s.TranslationScore))
	}
}
