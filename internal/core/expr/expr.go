// Package expr turns the command-line argument list into an immutable
// expression of filter and action terms, and evaluates it per entry.
package expr

import (
	"strings"

	"github.com/Ning0612/myfind/internal/core/predicate"
	"github.com/Ning0612/myfind/internal/domain"
)

// Predicate and action tokens
const (
	TokenUser   = "-user"
	TokenNoUser = "-nouser"
	TokenName   = "-name"
	TokenPath   = "-path"
	TokenType   = "-type"
	TokenLs     = "-ls"
	TokenPrint  = "-print"
)

// DefaultStart is walked when the argument list does not begin with a path
const DefaultStart = "."

// TermKind identifies a filter or an action
type TermKind int

const (
	KindUser TermKind = iota
	KindNoUser
	KindName
	KindPath
	KindType
	KindLs
	KindPrint
)

// IsAction reports whether the term reports the entry instead of testing it
func (k TermKind) IsAction() bool {
	return k == KindLs || k == KindPrint
}

// String returns the token for the kind
func (k TermKind) String() string {
	switch k {
	case KindUser:
		return TokenUser
	case KindNoUser:
		return TokenNoUser
	case KindName:
		return TokenName
	case KindPath:
		return TokenPath
	case KindType:
		return TokenType
	case KindLs:
		return TokenLs
	case KindPrint:
		return TokenPrint
	default:
		return "unknown"
	}
}

// Term is one parsed predicate or action with its operand
type Term struct {
	Kind    TermKind
	Operand string

	// compiled operands
	pattern  predicate.Pattern
	typeChar byte
}

// Expression is the parsed argument list. It is never modified after Parse
// and may be shared by every entry evaluation.
type Expression struct {
	// Start is the starting path; DefaultStart when none was given
	Start string

	// StartGiven is false when the first argument was already a predicate
	StartGiven bool

	Terms []Term
}

// HasFilters reports whether any filter term is present
func (e *Expression) HasFilters() bool {
	for _, t := range e.Terms {
		if !t.Kind.IsAction() {
			return true
		}
	}
	return false
}

// String renders the expression back into argument form
func (e *Expression) String() string {
	parts := make([]string, 0, 1+2*len(e.Terms))
	if e.StartGiven {
		parts = append(parts, e.Start)
	}
	for _, t := range e.Terms {
		parts = append(parts, t.Kind.String())
		if t.Operand != "" {
			parts = append(parts, t.Operand)
		}
	}
	return strings.Join(parts, " ")
}

var tokenKinds = map[string]TermKind{
	TokenUser:   KindUser,
	TokenNoUser: KindNoUser,
	TokenName:   KindName,
	TokenPath:   KindPath,
	TokenType:   KindType,
	TokenLs:     KindLs,
	TokenPrint:  KindPrint,
}

// needsOperand lists the kinds that consume the following argument
func needsOperand(k TermKind) bool {
	switch k {
	case KindUser, KindName, KindPath, KindType:
		return true
	}
	return false
}

// Parse validates args (program name excluded) and compiles them into an Expression.
// A leading argument that does not start with '-' is the start path.
func Parse(args []string) (*Expression, error) {
	e := &Expression{Start: DefaultStart}

	i := 0
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		e.Start = args[0]
		e.StartGiven = true
		i = 1
	}

	for i < len(args) {
		token := args[i]
		kind, ok := tokenKinds[token]
		if !ok {
			return nil, domain.NewUsageError(domain.ErrInvalidPredicate, "Invalid predicate `%s'.", token)
		}

		term := Term{Kind: kind}
		if needsOperand(kind) {
			if i+1 >= len(args) {
				return nil, domain.NewUsageError(domain.ErrMissingArgument, "Missing argument to `%s'.", token)
			}
			term.Operand = args[i+1]
			if err := term.compile(); err != nil {
				return nil, err
			}
			i += 2
		} else {
			i++
		}

		e.Terms = append(e.Terms, term)
	}

	return e, nil
}

// compile validates and precomputes the operand of a term
func (t *Term) compile() error {
	var err error
	switch t.Kind {
	case KindName:
		t.pattern, err = predicate.CompileName(t.Operand)
	case KindPath:
		t.pattern, err = predicate.CompilePath(t.Operand)
	case KindType:
		if len(t.Operand) != 1 {
			return domain.NewUsageError(domain.ErrInvalidType,
				"Argument of -type must be one character of these `%s'.", domain.TypeChars)
		}
		if _, ok := domain.FileTypeFromChar(t.Operand[0]); !ok {
			return domain.NewUsageError(domain.ErrInvalidType,
				"Argument -type unknown options of %s: %c.", TokenType, t.Operand[0])
		}
		t.typeChar = t.Operand[0]
	}
	return err
}
