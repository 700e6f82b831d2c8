package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// MinPolishLength is the minimum length, in characters, a polished brief
// must have to replace the deterministic one.
const MinPolishLength = 200

// CheckTemplate verifies that polished text kept the parseable structure:
// every required section header present and a plausible body length. A
// violation means the model's output is discarded and the deterministic
// brief is served instead.
func CheckTemplate(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinPolishLength {
		return fmt.Errorf("%w: output shorter than %d characters", domain.ErrTemplateViolation, MinPolishLength)
	}
	for _, header := range RequiredHeaders() {
		if !strings.Contains(text, header) {
			return fmt.Errorf("%w: missing %q section", domain.ErrTemplateViolation, header)
		}
	}
	return nil
}
