package header

import (
	"fmt"
	"math"

	"github.com/gogpu/shadermeta/diag"
)

// Options configures metadata parsing.
type Options struct {
	// Strict rejects unknown section markers and unknown precision
	// characters. When false, unknown section lines are skipped and records
	// with an unknown precision are dropped; both are reported in
	// Metadata.Warnings.
	Strict bool
}

// DefaultOptions returns the strict parsing options.
func DefaultOptions() Options {
	return Options{Strict: true}
}

// sectionParsers is indexed by Section.
var sectionParsers = [numSections]func(*parser) error{
	SectionInputs:               (*parser).parseInputs,
	SectionOutputs:              (*parser).parseOutputs,
	SectionUniformBlocks:        (*parser).parseUniformBlocks,
	SectionPackedGlobals:        (*parser).parsePackedGlobals,
	SectionPackedUB:             (*parser).parsePackedUB,
	SectionPackedUBCopies:       (*parser).parsePackedUBCopies,
	SectionPackedUBGlobalCopies: (*parser).parsePackedUBGlobalCopies,
	SectionSamplers:             (*parser).parseSamplers,
	SectionUAVs:                 (*parser).parseUAVs,
	SectionSamplerStates:        (*parser).parseSamplerStates,
	SectionNumThreads:           (*parser).parseNumThreads,
}

type parser struct {
	cur  *Cursor
	opts Options
	md   *Metadata
}

// Parse reads the metadata block at the head of text.
//
// Comment lines that precede the block and are not section lines are
// skipped. Sections are read in their fixed order until the first line that
// is not a section line; Metadata.End records where that line starts.
func Parse(text string, opts Options) (*Metadata, error) {
	p := &parser{
		cur:  NewCursor(text),
		opts: opts,
		md:   &Metadata{},
	}

	p.skipLeadingComments()

	last := -1
	for p.cur.HasPrefix(markerLead) {
		start := p.cur.Offset()
		section, ok := p.marker()
		if !ok {
			if p.opts.Strict {
				return nil, diag.ErrorAt(diag.ErrUnrecognizedToken, start, "unknown section marker %q", p.lineAt(start))
			}
			p.warnf("skipped unknown section line %q", p.lineAt(start))
			p.cur.SkipLine()
			continue
		}
		if int(section) < last || (int(section) == last && !section.repeatable()) {
			return nil, diag.ErrorAt(diag.ErrMalformedMetadata, start, "section %s out of order", section)
		}
		last = int(section)

		p.cur.Skip(len(section.Marker()))
		if err := sectionParsers[section](p); err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
	}

	p.md.End = p.cur.Offset()
	return p.md, nil
}

// skipLeadingComments drops banner comments written before the first
// section line.
func (p *parser) skipLeadingComments() {
	for p.cur.HasPrefix("//") && !p.cur.HasPrefix(markerLead) {
		p.cur.SkipLine()
	}
}

// marker identifies the section line under the cursor without consuming it.
func (p *parser) marker() (Section, bool) {
	probe := NewCursor(p.cur.source)
	probe.pos = p.cur.pos + len(markerLead)
	name := probe.Identifier()
	if !probe.HasPrefix(": ") {
		return 0, false
	}
	return lookupSection(name)
}

func (p *parser) lineAt(start int) string {
	end := start
	for end < len(p.cur.source) && p.cur.source[end] != '\n' && p.cur.source[end] != '\r' {
		end++
	}
	return p.cur.source[start:end]
}

func (p *parser) warnf(format string, args ...any) {
	p.md.Warnings = append(p.md.Warnings, fmt.Sprintf(format, args...))
}

// records parses a comma separated list of records ending at a newline.
// An empty list is a marker directly followed by the newline.
func (p *parser) records(record func() error) error {
	if p.cur.MatchNewline() || p.cur.AtEnd() {
		return nil
	}
	for {
		if err := record(); err != nil {
			return err
		}
		if p.cur.MatchNewline() || p.cur.AtEnd() {
			return nil
		}
		if err := p.cur.Match(','); err != nil {
			return err
		}
	}
}

func (p *parser) identifier(what string) (string, error) {
	start := p.cur.Offset()
	name := p.cur.Identifier()
	if name == "" {
		return "", diag.ErrorAt(diag.ErrMalformedMetadata, start, "expected %s, found %s", what, p.cur.describe())
	}
	return name, nil
}

func (p *parser) uint(what string) (uint32, error) {
	start := p.cur.Offset()
	v, ok := p.cur.UnsignedInt()
	if !ok {
		return 0, diag.ErrorAt(diag.ErrMalformedMetadata, start, "expected %s, found %s", what, p.cur.describe())
	}
	if v > math.MaxUint32 {
		return 0, diag.ErrorAt(diag.ErrMalformedMetadata, start, "%s out of range", what)
	}
	return uint32(v), nil
}

// precision reads a precision character. known is false when a lenient
// parse met an unknown character; the caller drops the record.
func (p *parser) precision() (prec Precision, known bool, err error) {
	start := p.cur.Offset()
	if p.cur.AtEnd() || !isIdentChar(p.cur.Peek()) {
		return 0, false, diag.ErrorAt(diag.ErrMalformedMetadata, start, "expected precision, found %s", p.cur.describe())
	}
	c := p.cur.Advance()
	prec, ok := PrecisionFromChar(c)
	if ok {
		return prec, true, nil
	}
	if p.opts.Strict {
		return 0, false, diag.ErrorAt(diag.ErrUnrecognizedToken, start, "unknown precision %q", rune(c))
	}
	p.warnf("dropped record with unknown precision %q at byte %d", rune(c), start)
	return 0, false, nil
}

// `[Type ';' Location ':'] Name [':' Semantic]`
func (p *parser) inOut(list *[]InOutVar) func() error {
	return func() error {
		first, err := p.identifier("input/output name")
		if err != nil {
			return err
		}
		v := InOutVar{Name: first}
		explicit := false
		if p.cur.Peek() == ';' {
			p.cur.Advance()
			v.Type = first
			if v.Location, err = p.uint("location"); err != nil {
				return err
			}
			if err := p.cur.Match(':'); err != nil {
				return err
			}
			if v.Name, err = p.identifier("input/output name"); err != nil {
				return err
			}
			explicit = true
		}
		if p.cur.Peek() == ':' {
			p.cur.Advance()
			if v.Semantic, err = p.identifier("semantic"); err != nil {
				return err
			}
			if !explicit {
				v.Location = TrailingIndex(v.Semantic)
			}
		}
		*list = append(*list, v)
		return nil
	}
}

func (p *parser) parseInputs() error {
	return p.records(p.inOut(&p.md.Inputs))
}

func (p *parser) parseOutputs() error {
	return p.records(p.inOut(&p.md.Outputs))
}

// `Name '(' Index ')'`
func (p *parser) parseUniformBlocks() error {
	return p.records(func() error {
		name, err := p.identifier("uniform block name")
		if err != nil {
			return err
		}
		if err := p.cur.Match('('); err != nil {
			return err
		}
		index, err := p.uint("uniform block index")
		if err != nil {
			return err
		}
		if err := p.cur.Match(')'); err != nil {
			return err
		}
		p.md.UniformBlocks = append(p.md.UniformBlocks, UniformBlock{Name: name, Index: index})
		return nil
	})
}

// `Name '(' Precision ':' Offset ',' Count ')'`
func (p *parser) parsePackedGlobals() error {
	return p.records(func() error {
		name, err := p.identifier("packed global name")
		if err != nil {
			return err
		}
		if err := p.cur.Match('('); err != nil {
			return err
		}
		prec, known, err := p.precision()
		if err != nil {
			return err
		}
		if err := p.cur.Match(':'); err != nil {
			return err
		}
		offset, err := p.uint("offset")
		if err != nil {
			return err
		}
		if err := p.cur.Match(','); err != nil {
			return err
		}
		count, err := p.uint("count")
		if err != nil {
			return err
		}
		if err := p.cur.Match(')'); err != nil {
			return err
		}
		if known {
			p.md.PackedGlobals = append(p.md.PackedGlobals, PackedGlobal{
				Name:      name,
				Precision: prec,
				Offset:    offset,
				Count:     count,
			})
		}
		return nil
	})
}

// `Name '(' Index ')' ':' [' '] Member '(' Offset ',' Count ')' {',' ...}`
// One packed uniform buffer per line.
func (p *parser) parsePackedUB() error {
	name, err := p.identifier("packed uniform buffer name")
	if err != nil {
		return err
	}
	if err := p.cur.Match('('); err != nil {
		return err
	}
	index, err := p.uint("packed uniform buffer index")
	if err != nil {
		return err
	}
	if err := p.cur.Match(')'); err != nil {
		return err
	}
	if err := p.cur.Match(':'); err != nil {
		return err
	}
	p.cur.SkipSpaces()

	ub := PackedUniformBuffer{Name: name, Index: index}
	err = p.records(func() error {
		member, err := p.identifier("member name")
		if err != nil {
			return err
		}
		if err := p.cur.Match('('); err != nil {
			return err
		}
		offset, err := p.uint("member offset")
		if err != nil {
			return err
		}
		if err := p.cur.Match(','); err != nil {
			return err
		}
		count, err := p.uint("member count")
		if err != nil {
			return err
		}
		if err := p.cur.Match(')'); err != nil {
			return err
		}
		ub.Members = append(ub.Members, PackedMember{Name: member, Offset: offset, Count: count})
		return nil
	})
	if err != nil {
		return err
	}
	p.md.PackedUniformBuffers = append(p.md.PackedUniformBuffers, ub)
	return nil
}

// copyRecord parses `SrcUB ':' SrcOffset '-' [DstUB ':'] Precision ':' DstOffset ':' Size`.
func (p *parser) copyRecord(list *[]CopyInfo, hasDestUB bool) func() error {
	return func() error {
		var c CopyInfo
		var err error
		if c.SourceUB, err = p.uint("source uniform buffer"); err != nil {
			return err
		}
		if err := p.cur.Match(':'); err != nil {
			return err
		}
		if c.SourceOffset, err = p.uint("source offset"); err != nil {
			return err
		}
		if err := p.cur.Match('-'); err != nil {
			return err
		}
		if hasDestUB {
			if c.DestUB, err = p.uint("destination uniform buffer"); err != nil {
				return err
			}
			if err := p.cur.Match(':'); err != nil {
				return err
			}
		}
		prec, known, err := p.precision()
		if err != nil {
			return err
		}
		c.Precision = prec
		if err := p.cur.Match(':'); err != nil {
			return err
		}
		if c.DestOffset, err = p.uint("destination offset"); err != nil {
			return err
		}
		if err := p.cur.Match(':'); err != nil {
			return err
		}
		if c.Size, err = p.uint("size"); err != nil {
			return err
		}
		if known {
			*list = append(*list, c)
		}
		return nil
	}
}

func (p *parser) parsePackedUBCopies() error {
	return p.records(p.copyRecord(&p.md.PackedUniformBufferCopies, true))
}

func (p *parser) parsePackedUBGlobalCopies() error {
	return p.records(p.copyRecord(&p.md.PackedGlobalCopies, false))
}

// offsetCount parses `Offset ':' Count`.
func (p *parser) offsetCount() (offset, count uint32, err error) {
	if offset, err = p.uint("offset"); err != nil {
		return 0, 0, err
	}
	if err = p.cur.Match(':'); err != nil {
		return 0, 0, err
	}
	if count, err = p.uint("count"); err != nil {
		return 0, 0, err
	}
	return offset, count, nil
}

// `Name '(' Offset ':' Count ['[' State {',' State} ']'] ')'`
func (p *parser) parseSamplers() error {
	return p.records(func() error {
		name, err := p.identifier("sampler name")
		if err != nil {
			return err
		}
		if err := p.cur.Match('('); err != nil {
			return err
		}
		s := Sampler{Name: name}
		if s.Offset, s.Count, err = p.offsetCount(); err != nil {
			return err
		}
		if p.cur.Peek() == '[' {
			p.cur.Advance()
			for {
				state, err := p.identifier("sampler state name")
				if err != nil {
					return err
				}
				s.StateNames = append(s.StateNames, state)
				if p.cur.Peek() != ',' {
					break
				}
				p.cur.Advance()
			}
			if err := p.cur.Match(']'); err != nil {
				return err
			}
		}
		if err := p.cur.Match(')'); err != nil {
			return err
		}
		p.md.Samplers = append(p.md.Samplers, s)
		return nil
	})
}

// `Name '(' Offset ':' Count ')'`
func (p *parser) parseUAVs() error {
	return p.records(func() error {
		name, err := p.identifier("UAV name")
		if err != nil {
			return err
		}
		if err := p.cur.Match('('); err != nil {
			return err
		}
		u := UAV{Name: name}
		if u.Offset, u.Count, err = p.offsetCount(); err != nil {
			return err
		}
		if err := p.cur.Match(')'); err != nil {
			return err
		}
		p.md.UAVs = append(p.md.UAVs, u)
		return nil
	})
}

// `Index ':' Name`
func (p *parser) parseSamplerStates() error {
	return p.records(func() error {
		index, err := p.uint("sampler state index")
		if err != nil {
			return err
		}
		if err := p.cur.Match(':'); err != nil {
			return err
		}
		name, err := p.identifier("sampler state name")
		if err != nil {
			return err
		}
		p.md.SamplerStates = append(p.md.SamplerStates, SamplerState{Index: index, Name: name})
		return nil
	})
}

// `X ',' [' '] Y ',' [' '] Z`
func (p *parser) parseNumThreads() error {
	var nt NumThreads
	var err error
	if nt.X, err = p.uint("thread count X"); err != nil {
		return err
	}
	if err := p.cur.Match(','); err != nil {
		return err
	}
	p.cur.SkipSpaces()
	if nt.Y, err = p.uint("thread count Y"); err != nil {
		return err
	}
	if err := p.cur.Match(','); err != nil {
		return err
	}
	p.cur.SkipSpaces()
	if nt.Z, err = p.uint("thread count Z"); err != nil {
		return err
	}
	if !p.cur.MatchNewline() && !p.cur.AtEnd() {
		return diag.ErrorAt(diag.ErrMalformedMetadata, p.cur.Offset(), "expected newline, found %s", p.cur.describe())
	}
	p.md.NumThreads = &nt
	return nil
}

// TrailingIndex returns the decimal number at the end of name, or 0.
// "TEXCOORD12" yields 12.
func TrailingIndex(name string) uint32 {
	i := len(name)
	for i > 0 && isDigit(name[i-1]) {
		i--
	}
	var v uint32
	for _, b := range []byte(name[i:]) {
		v = v*10 + uint32(b-'0')
	}
	return v
}
