package discovery

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Counter produces the character vocab and packed ngram files from a
// normalized corpus file. The production implementation shells out to
// the bundled count_ngrams binary; tests substitute an in-process one.
type Counter interface {
	Count(corpusPath, vocabPath, ngramPath string) error
}

// Windows NTSTATUS values count_ngrams dies with when the machine is
// short on memory or the boost runtime is missing.
const (
	winExitNoMemory = -1073740791
	winExitNoBoost  = -1073741515
)

var (
	ErrCounterMemory = errors.New("count_ngrams ran out of memory, lower the memory fraction")
	ErrCounterBoost  = errors.New("count_ngrams is missing the boost runtime")
	ErrCounterFailed = errors.New("count_ngrams failed")
)

// ExternalCounter invokes count_ngrams as a subprocess, reading the
// corpus on stdin and writing packed ngrams to stdout.
type ExternalCounter struct {
	// BinaryPath overrides the binary location. Empty selects
	// ./count_ngrams (count_ngrams.exe on Windows) in the working
	// directory.
	BinaryPath string

	// Order and MemoryFraction mirror the pipeline configuration.
	Order          int
	MemoryFraction float64
}

func (c *ExternalCounter) binary() string {
	if c.BinaryPath != "" {
		return c.BinaryPath
	}
	if runtime.GOOS == "windows" {
		return "./count_ngrams.exe"
	}
	return "./count_ngrams"
}

func (c *ExternalCounter) Count(corpusPath, vocabPath, ngramPath string) error {
	percent, err := counterMemoryPercent(c.MemoryFraction)
	if err != nil {
		return err
	}

	in, err := os.Open(corpusPath)
	if err != nil {
		return fmt.Errorf("opening corpus file %s: %w", corpusPath, err)
	}
	defer in.Close()
	out, err := os.Create(ngramPath)
	if err != nil {
		return fmt.Errorf("creating ngram file %s: %w", ngramPath, err)
	}
	defer out.Close()

	cmd := exec.Command(c.binary(),
		"-o", strconv.Itoa(c.Order),
		"--memory="+strconv.Itoa(percent)+"%",
		"--write_vocab_list", vocabPath,
	)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = os.Stderr

	log.Info().
		Str("binary", c.binary()).
		Int("order", c.Order).
		Int("memoryPercent", percent).
		Msg("counting ngrams")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch exitErr.ExitCode() {
			case winExitNoMemory:
				return ErrCounterMemory
			case winExitNoBoost:
				return ErrCounterBoost
			}
			return fmt.Errorf("%w: exit status %d", ErrCounterFailed, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %v", ErrCounterFailed, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing ngram file %s: %w", ngramPath, err)
	}
	return nil
}
