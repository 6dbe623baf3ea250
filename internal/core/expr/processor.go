package expr

import (
	"fmt"

	"github.com/Ning0612/myfind/internal/core/predicate"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/identity"
	"github.com/Ning0612/myfind/internal/report"
)

// evalState is folded left-to-right over the terms of one entry
type evalState struct {
	// matched is the running conjunction; it never goes from false back to true
	matched bool

	// filtered is set once any filter term has been applied
	filtered bool

	printedPlain   bool
	printedListing bool

	// pendingListing remembers a -ls seen before the first filter
	pendingListing bool
}

// Processor evaluates an Expression against single entries
type Processor struct {
	Resolver identity.Resolver
	Sink     report.Sink
}

// NewProcessor creates a processor reporting to sink
func NewProcessor(resolver identity.Resolver, sink report.Sink) *Processor {
	return &Processor{Resolver: resolver, Sink: sink}
}

// Process runs every term of e against entry and reports it through the sink.
// The returned error is fatal to the whole run (usage or output failure).
func (p *Processor) Process(e *Expression, entry domain.Entry) error {
	st := evalState{matched: e.StartGiven}

	for i := range e.Terms {
		term := &e.Terms[i]
		if term.Kind.IsAction() {
			if err := p.runAction(&st, term.Kind, entry); err != nil {
				return err
			}
			continue
		}
		if err := p.applyFilter(&st, term, entry); err != nil {
			return err
		}
	}

	return p.finish(&st, entry)
}

// applyFilter ANDs one filter result into the conjunction
func (p *Processor) applyFilter(st *evalState, term *Term, entry domain.Entry) error {
	ok, err := p.evaluate(term, entry)
	if err != nil {
		return err
	}
	st.matched = st.matched && ok
	st.filtered = true
	return nil
}

func (p *Processor) evaluate(term *Term, entry domain.Entry) (bool, error) {
	switch term.Kind {
	case KindName:
		return predicate.MatchesName(entry.Path, term.pattern), nil
	case KindPath:
		return predicate.MatchesPath(entry.Path, term.pattern), nil
	case KindType:
		return predicate.MatchesType(entry.Metadata, term.typeChar), nil
	case KindUser:
		return predicate.MatchesUser(p.Resolver, entry.Metadata, term.Operand)
	case KindNoUser:
		return predicate.HasNoOwner(p.Resolver, entry.Metadata), nil
	}
	return false, domain.NewUsageError(domain.ErrInvalidPredicate, "Invalid predicate `%s'.", term.Kind)
}

// runAction reports immediately once a filter has passed; a -ls that comes
// before every filter is deferred to finish
func (p *Processor) runAction(st *evalState, kind TermKind, entry domain.Entry) error {
	if !st.filtered || !st.matched {
		if kind == KindLs {
			st.pendingListing = true
		}
		return nil
	}

	switch kind {
	case KindLs:
		st.printedListing = true
		return p.listing(entry)
	case KindPrint:
		st.printedPlain = true
		return p.plain(entry)
	}
	return nil
}

// finish applies the default action: an entry that matched without being
// reported, or any entry of a filter-free expression, is reported once
func (p *Processor) finish(st *evalState, entry domain.Entry) error {
	reported := st.printedPlain || st.printedListing
	if (st.matched && !reported) || !st.filtered {
		if st.pendingListing {
			return p.listing(entry)
		}
		return p.plain(entry)
	}
	return nil
}

func (p *Processor) plain(entry domain.Entry) error {
	if err := p.Sink.Plain(entry.Path); err != nil {
		return fmt.Errorf("writing %s: %w", entry.Path, err)
	}
	return nil
}

func (p *Processor) listing(entry domain.Entry) error {
	if err := p.Sink.Listing(entry); err != nil {
		return fmt.Errorf("writing %s: %w", entry.Path, err)
	}
	return nil
}
