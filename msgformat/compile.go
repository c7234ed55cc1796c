package msgformat

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Compiler turns message strings into Messages, memoising the result per
// message string. It is safe for concurrent use.
type Compiler struct {
	logger *zap.Logger
	cache  *sync.Map
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger that receives syntax error warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithoutCache disables memoisation.
func WithoutCache() Option {
	return func(c *Compiler) {
		c.cache = nil
	}
}

// NewCompiler returns a Compiler with a cache and a no-op logger.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{logger: zap.NewNop(), cache: new(sync.Map)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompiler = NewCompiler()

// Compile compiles message with a shared, silent Compiler.
func Compile(message string) Message {
	return defaultCompiler.Compile(message)
}

// Compile returns the compiled form of message. A message without '{' is
// returned verbatim as a literal. A message with a syntax error is logged
// and also returned verbatim, so rendering shows the raw text.
func (c *Compiler) Compile(message string) Message {
	if !strings.Contains(message, "{") {
		return LiteralMessage(message)
	}
	if c.cache != nil {
		if m, ok := c.cache.Load(message); ok {
			return m.(Message)
		}
	}

	tokens, err := Parse(message)
	var m Message
	if err != nil {
		c.logger.Warn("invalid message syntax", zap.String("message", message), zap.Error(err))
		m = LiteralMessage(message)
	} else {
		m = NewMessage(tokens)
	}

	if c.cache != nil {
		actual, _ := c.cache.LoadOrStore(message, m)
		m = actual.(Message)
	}
	return m
}
