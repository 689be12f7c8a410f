package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"bfhl/internal/ai"
	"bfhl/internal/config"
)

// Operation keys accepted by Process.
const (
	OpFibonacci = "fibonacci"
	OpPrime     = "prime"
	OpLCM       = "lcm"
	OpHCF       = "hcf"
	OpAI        = "AI"
)

const (
	aiPromptPrefix = "Answer in one word: "
	unknownAnswer  = "unknown"
)

var (
	ErrInvalidJSON      = errors.New("Invalid JSON in request body")
	ErrInvalidShape     = errors.New("Request body must be a JSON object")
	ErrInvalidKeyCount  = errors.New("Request must contain exactly one key")
	ErrForbiddenKey     = errors.New("Forbidden key")
	ErrUnknownOperation = errors.New("Invalid Key")
	ErrInvalidInput     = errors.New("Invalid input")
)

// forbiddenKeys are rejected before any dispatch.
var forbiddenKeys = map[string]struct{}{
	"__proto__":   {},
	"constructor": {},
	"prototype":   {},
}

// BFHLService defines the single-key compute use case.
type BFHLService interface {
	// Process validates body as a one-key JSON object and returns the result of the named operation.
	Process(ctx context.Context, body []byte) (any, error)
}

type operation func(ctx context.Context, v any) (any, error)

// bfhlService is a concrete implementation of BFHLService.
type bfhlService struct {
	answerer ai.Answerer
	limits   config.LimitsConfig
	ops      map[string]operation
}

// NewBFHLService constructs a BFHLService. answerer backs the AI operation.
func NewBFHLService(answerer ai.Answerer, limits config.LimitsConfig) BFHLService {
	s := &bfhlService{
		answerer: answerer,
		limits:   limits,
	}
	s.ops = map[string]operation{
		OpFibonacci: s.fibonacci,
		OpPrime:     s.prime,
		OpLCM:       s.lcm,
		OpHCF:       s.hcf,
		OpAI:        s.askAI,
	}
	return s
}

func (s *bfhlService) Process(ctx context.Context, body []byte) (any, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	if len(obj) != 1 {
		return nil, ErrInvalidKeyCount
	}

	var key string
	var value any
	for k, v := range obj {
		key, value = k, v
	}

	if _, bad := forbiddenKeys[key]; bad {
		return nil, ErrForbiddenKey
	}
	op, ok := s.ops[key]
	if !ok {
		return nil, ErrUnknownOperation
	}
	return op(ctx, value)
}

func (s *bfhlService) fibonacci(_ context.Context, v any) (any, error) {
	n, ok := asInt64(v)
	if !ok || n < 1 || n > int64(s.limits.FibonacciMax) {
		return nil, invalidInput("fibonacci must be a positive integer no greater than %d", s.limits.FibonacciMax)
	}
	return Fibonacci(int(n)), nil
}

func (s *bfhlService) prime(_ context.Context, v any) (any, error) {
	xs, ok := asInt64Slice(v)
	if !ok {
		return nil, invalidInput("prime must be an array of integers")
	}
	if len(xs) > s.limits.ArrayMax {
		return nil, invalidInput("prime accepts at most %d elements", s.limits.ArrayMax)
	}
	return PrimeFilter(xs), nil
}

func (s *bfhlService) lcm(_ context.Context, v any) (any, error) {
	xs, err := s.positiveArray(OpLCM, v)
	if err != nil {
		return nil, err
	}
	return LCM(xs), nil
}

func (s *bfhlService) hcf(_ context.Context, v any) (any, error) {
	xs, err := s.positiveArray(OpHCF, v)
	if err != nil {
		return nil, err
	}
	return HCF(xs), nil
}

func (s *bfhlService) positiveArray(op string, v any) ([]int64, error) {
	xs, ok := asInt64Slice(v)
	if !ok || len(xs) == 0 {
		return nil, invalidInput("%s must be a non-empty array of positive integers", op)
	}
	if len(xs) > s.limits.ArrayMax {
		return nil, invalidInput("%s accepts at most %d elements", op, s.limits.ArrayMax)
	}
	for _, x := range xs {
		if x <= 0 {
			return nil, invalidInput("%s must be a non-empty array of positive integers", op)
		}
	}
	return xs, nil
}

func (s *bfhlService) askAI(ctx context.Context, v any) (any, error) {
	q, ok := v.(string)
	if !ok {
		return nil, invalidInput("AI must be a non-empty string")
	}
	// The cap applies to the question exactly as sent; the text is forwarded verbatim
	// as a JSON string, so nothing is escaped or stripped.
	if utf8.RuneCountInString(q) > s.limits.QuestionMax {
		return nil, invalidInput("AI question must be at most %d characters", s.limits.QuestionMax)
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalidInput("AI must be a non-empty string")
	}

	raw, err := s.answerer.Answer(ctx, aiPromptPrefix+q)
	if err != nil {
		return nil, err
	}
	return NormalizeAnswer(raw), nil
}

// NormalizeAnswer keeps the ASCII letters and digits of the first word of raw,
// or returns "unknown" when nothing is left.
func NormalizeAnswer(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return unknownAnswer
	}
	word := strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			return r
		}
		return -1
	}, fields[0])
	if word == "" {
		return unknownAnswer
	}
	return word
}

// ErrorKind classifies err for the failure log line.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrInvalidShape):
		return "invalid_shape"
	case errors.Is(err, ErrInvalidKeyCount):
		return "invalid_key_count"
	case errors.Is(err, ErrForbiddenKey):
		return "forbidden_key"
	case errors.Is(err, ErrUnknownOperation):
		return "unknown_operation"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ai.ErrNotConfigured):
		return "config"
	case errors.Is(err, ai.ErrUpstream):
		return "upstream"
	default:
		return "internal"
	}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
