package sentiment

import (
	"errors"
	"fmt"
)

// ErrScorerUnavailable is fatal to a whole pipeline invocation, single or batch.
var ErrScorerUnavailable = errors.New("sentiment scorer unavailable")

type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// TranslationFailure is recoverable: the text is scored untranslated.
type TranslationFailure struct {
	Language string
	Err      error
}

func (e *TranslationFailure) Error() string {
	return fmt.Sprintf("translation from %q to English failed, scored original text: %v", e.Language, e.Err)
}

func (e *TranslationFailure) Unwrap() error {
	return e.Err
}

func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

func IsScorerUnavailable(err error) bool {
	return errors.Is(err, ErrScorerUnavailable)
}
