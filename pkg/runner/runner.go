// Package runner drives one batch: for each selected dataset record it fills
// the prompt, calls the model, repairs and parses the reply, and writes the
// two output artifacts. A failed record is logged and skipped; the batch
// never aborts because one reply came back broken.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"rubricgen/pkg/config"
	"rubricgen/pkg/dataset"
	"rubricgen/pkg/inference"
	"rubricgen/pkg/jsonfix"
	"rubricgen/pkg/prompt"
	"rubricgen/pkg/utils"
)

type Runner struct {
	inferencer inference.Inferencer
	cfg        config.Config
}

// Stats summarizes one finished batch.
type Stats struct {
	RunID     string
	Succeeded int
	Failed    int
	Duration  time.Duration
}

func New(inferencer inference.Inferencer, cfg config.Config) *Runner {
	return &Runner{inferencer: inferencer, cfg: cfg}
}

// Run processes up to ControlNum records sequentially, pausing Delay between
// successful records. With Shuffle enabled each iteration picks a random
// record, which may repeat within a run.
func (r *Runner) Run(ctx context.Context, template string, records []dataset.Record) Stats {
	stats := Stats{RunID: ksuid.New().String()}
	start := time.Now()

	limit := min(len(records), r.cfg.ControlNum)
	log.Info("starting batch", "run", stats.RunID, "records", len(records), "processing", limit)

	for i := range limit {
		if ctx.Err() != nil {
			log.Warn("batch interrupted", "run", stats.RunID, "processed", i)
			break
		}

		index := i
		if r.cfg.Shuffle {
			index = rand.IntN(len(records))
		}
		rec := records[index]
		log.Info("processing record", "n", fmt.Sprintf("%d/%d", i+1, limit),
			"subject", rec.Subject, "sub_subject", rec.SubSubject, "requirement", rec.Requirement)

		if err := r.processRecord(ctx, template, rec); err != nil {
			log.Error("record failed, skipping", "idx", rec.Idx, "error", err)
			stats.Failed++
			continue
		}
		stats.Succeeded++

		if i < limit-1 && r.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.cfg.Delay):
			}
		}
	}

	stats.Duration = time.Since(start)
	log.Info("batch finished", "run", stats.RunID,
		"succeeded", stats.Succeeded, "failed", stats.Failed, "duration", stats.Duration)
	return stats
}

func (r *Runner) processRecord(ctx context.Context, template string, rec dataset.Record) error {
	chatPrompt, err := prompt.Fill(template, r.cfg.Language, rec)
	if err != nil {
		return fmt.Errorf("fill prompt: %w", err)
	}
	if n, err := prompt.CountTokens(chatPrompt); err == nil && int64(n) > r.cfg.MaxTokens {
		log.Warn("prompt exceeds token budget, completion may be truncated",
			"idx", rec.Idx, "tokens", n, "budget", r.cfg.MaxTokens)
	}

	raw, err := r.inferencer.Infer(ctx, "", chatPrompt)
	if err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	if ok, err := r.inferencer.Verify(ctx, raw); !ok {
		if err != nil {
			return fmt.Errorf("reply rejected: %w", err)
		}
		return errors.New("reply rejected")
	}

	extracted, ok := jsonfix.ExtractObject(raw)
	if !ok {
		return errors.New("no JSON object found in reply")
	}

	var opts []jsonfix.Option
	if r.cfg.StrictRepair {
		opts = append(opts, jsonfix.WithStrictRepair())
	}
	doc, err := jsonfix.RepairAndParse(extracted, opts...)
	if err != nil {
		return fmt.Errorf("parse reply: %w", err)
	}

	if r.cfg.DebugDiff {
		r.logRepairDiff(rec.Idx, extracted)
	}

	return r.save(rec, doc)
}

// logRepairDiff reports how many words the heuristic passes rewrote, to make
// silent misfires inside string content visible during tuning.
func (r *Runner) logRepairDiff(idx, extracted string) {
	normalized, err := jsonfix.Normalize(extracted)
	if err != nil {
		return
	}
	repaired := jsonfix.RepairStructure(jsonfix.RepairEscapes(normalized))
	if repaired == normalized {
		return
	}
	deltas := utils.DiffWords(normalized, repaired)
	log.Debug("repair passes changed the reply", "idx", idx, "changed_words", utils.ChangedWords(deltas))
}

func (r *Runner) save(rec dataset.Record, doc map[string]any) error {
	manual, ok := doc["manual"].(string)
	if !ok {
		return errors.New("manual field is not text")
	}

	stem := utils.SafeFilename(rec.Idx)

	manualPath := filepath.Join(r.cfg.OutputDir, r.cfg.Language, "manual", stem+".md")
	if err := os.MkdirAll(filepath.Dir(manualPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(manualPath, []byte(manual), 0o644); err != nil {
		return fmt.Errorf("write manual: %w", err)
	}
	log.Info("manual saved", "path", manualPath)

	jsonPath := filepath.Join(r.cfg.OutputDir, r.cfg.Language, "prompt", stem+".json")
	if err := utils.Save(jsonPath, doc); err != nil {
		return fmt.Errorf("write prompt json: %w", err)
	}
	log.Info("prompt saved", "path", jsonPath)

	return nil
}
