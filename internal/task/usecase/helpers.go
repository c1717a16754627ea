package usecase

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"leaflet/internal/model"
	"leaflet/internal/task"
)

const (
	idSuffixLen  = 9
	base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// newID builds a task id from the creation time in unix milliseconds plus a
// random base36 suffix.
func newID(now time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))

	max := big.NewInt(int64(len(base36Digits)))
	for i := 0; i < idSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b.WriteByte(base36Digits[n.Int64()])
	}
	return b.String()
}

// normalizeText trims text and rejects blank values.
func normalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", task.ErrTextRequired
	}
	return trimmed, nil
}

// coalesce returns the first non-empty string.
func coalesce(newVal, fallback string) string {
	if newVal != "" {
		return newVal
	}
	return fallback
}

func validatePatch(p *model.TaskPatch) error {
	if p.Text != nil {
		text, err := normalizeText(*p.Text)
		if err != nil {
			return err
		}
		p.Text = &text
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return task.ErrInvalidPriority
	}
	return nil
}
