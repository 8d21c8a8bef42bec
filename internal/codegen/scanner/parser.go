package scanner

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// stageKeywords are the function qualifiers (and Metal 3 attributes) that make a
// declaration an entry point.
var stageKeywords = map[string]Stage{
	"vertex":   StageVertex,
	"fragment": StageFragment,
	"kernel":   StageKernel,
}

// builtinAttributes mark stage inputs supplied by the pipeline rather than
// bound by the encoder. Parameters carrying them are skipped.
var builtinAttributes = map[string]bool{
	"stage_in":                         true,
	"vertex_id":                        true,
	"instance_id":                      true,
	"base_vertex":                      true,
	"base_instance":                    true,
	"amplification_id":                 true,
	"amplification_count":              true,
	"position":                         true,
	"front_facing":                     true,
	"point_coord":                      true,
	"sample_id":                        true,
	"sample_mask":                      true,
	"primitive_id":                     true,
	"barycentric_coord":                true,
	"render_target_array_index":        true,
	"viewport_array_index":             true,
	"color":                            true,
	"patch_id":                         true,
	"position_in_patch":                true,
	"thread_position_in_grid":          true,
	"thread_position_in_threadgroup":   true,
	"thread_index_in_threadgroup":      true,
	"threadgroup_position_in_grid":     true,
	"threads_per_grid":                 true,
	"threads_per_threadgroup":          true,
	"threadgroups_per_grid":            true,
	"thread_index_in_simdgroup":        true,
	"simdgroup_index_in_threadgroup":   true,
	"threads_per_simdgroup":            true,
	"dispatch_threads_per_threadgroup": true,
	"threadgroup":                      true,
}

// resourceAttributes map binding attributes to the resource they bind.
var resourceAttributes = map[string]ResourceKind{
	"buffer":  ResourceBuffer,
	"texture": ResourceTexture,
	"sampler": ResourceSampler,
}

const hostNameUnsupported = "host_name is not supported, rename the entry point instead"

type attribute struct {
	name string
	args []Token
	tok  Token
}

type parser struct {
	toks    []Token
	pos     int
	file    *File
	symbols map[string]int // enum members and integer #defines usable as indices
	refs    []map[string]bool
	helpers map[string]map[string]bool // non-entry function name -> identifiers it uses
	nsDepth int

	pending    Directives
	hasPending bool
}

// Parse harvests the entry points and function constants of one Metal source.
// Functions without a stage qualifier are ignored. The returned error is a
// *ParseError.
func Parse(path, src string) (*File, error) {
	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, withSource(err, path, src)
	}

	p := &parser{
		toks:    toks,
		file:    &File{Path: path},
		symbols: make(map[string]int),
		helpers: make(map[string]map[string]bool),
	}
	if err := p.parse(); err != nil {
		return nil, withSource(err, path, src)
	}
	p.attachConstants()
	return p.file, nil
}

func withSource(err error, path, src string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.File = path
		pe.Source = src
	}
	return err
}

func (p *parser) parse() error {
	for !p.at(TokenEOF) {
		tok := p.peek()
		switch tok.Kind {
		case TokenComment:
			p.next()
			if isDirective(tok.Lexeme) {
				if err := p.pending.apply(tok); err != nil {
					return err
				}
				p.hasPending = true
			}
			continue
		case TokenPreprocessor:
			p.next()
			p.define(tok)
			continue
		case TokenSemicolon:
			p.next()
			continue
		case TokenRightBrace:
			if p.nsDepth == 0 {
				return errorAt(tok, "unexpected '}'")
			}
			p.nsDepth--
			p.next()
			p.resetPending()
			continue
		}

		if err := p.statement(); err != nil {
			return err
		}
		p.resetPending()
	}
	return nil
}

func (p *parser) resetPending() {
	p.pending = Directives{}
	p.hasPending = false
}

func (p *parser) statement() error {
	start := p.peek()

	var (
		stage    Stage
		hasStage bool
	)
	for p.at(TokenAttrOpen) {
		attrs, err := p.attributeBlock()
		if err != nil {
			return err
		}
		for _, a := range attrs {
			if s, ok := stageKeywords[a.name]; ok {
				stage, hasStage = s, true
			}
			if a.name == "host_name" {
				return &ParseError{Attribute: a.name, Line: a.tok.Line, Column: a.tok.Column,
					Message: hostNameUnsupported}
			}
		}
	}

	if tok := p.peek(); tok.Kind == TokenIdent {
		if s, ok := stageKeywords[tok.Lexeme]; ok {
			p.next()
			return p.entryPoint(s, tok)
		}
		switch tok.Lexeme {
		case "namespace":
			return p.namespace()
		case "constant":
			return p.constantDecl()
		case "enum":
			return p.enumDecl()
		case "typedef":
			if next := p.peekAt(1); next.Kind == TokenIdent && next.Lexeme == "enum" {
				p.next()
				return p.enumDecl()
			}
		}
	}

	if hasStage {
		return p.entryPoint(stage, start)
	}
	p.skipStatement()
	return nil
}

// entryPoint parses "<return type> <name>(<params>) { body }" after the stage
// qualifier. Prototypes without a body are not harvested.
func (p *parser) entryPoint(stage Stage, at Token) error {
	var name Token
	angle := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEOF, TokenSemicolon, TokenLeftBrace, TokenRightBrace:
			return errorAt(at, "expected function declaration after %s qualifier", stage)
		case TokenLess:
			angle++
		case TokenGreater:
			angle--
		case TokenIdent:
			name = tok
		}
		p.next()
		if tok.Kind == TokenLeftParen && angle == 0 {
			break
		}
	}
	if prev := p.toks[p.pos-2]; prev.Kind != TokenIdent {
		return errorAt(prev, "expected function name before '('")
	}

	paramToks, err := p.parenContents(name)
	if err != nil {
		return err
	}

	// trailing attributes such as [[max_total_threads_per_threadgroup(n)]]
	for p.at(TokenAttrOpen) {
		attrs, err := p.attributeBlock()
		if err != nil {
			return err
		}
		for _, a := range attrs {
			if a.name == "host_name" {
				return &ParseError{Shader: name.Lexeme, Attribute: a.name, Line: a.tok.Line, Column: a.tok.Column,
					Message: hostNameUnsupported}
			}
		}
	}

	if p.at(TokenSemicolon) {
		p.next()
		return nil
	}
	if !p.at(TokenLeftBrace) {
		return &ParseError{
			Shader:  name.Lexeme,
			Line:    p.peek().Line,
			Column:  p.peek().Column,
			Message: "expected function body, got " + p.peek().Kind.String(),
		}
	}

	for _, s := range p.file.Shaders {
		if s.Name == name.Lexeme {
			return &ParseError{Shader: name.Lexeme, Line: name.Line, Column: name.Column, Message: "duplicate entry point"}
		}
	}

	refs := make(map[string]bool)
	for _, t := range paramToks {
		if t.Kind == TokenIdent {
			refs[t.Lexeme] = true
		}
	}
	for _, t := range p.block() {
		if t.Kind == TokenIdent {
			refs[t.Lexeme] = true
		}
	}

	shader := Shader{
		Kind: stage,
		Name: name.Lexeme,
		Line: name.Line,
	}
	if p.hasPending {
		shader.Directives = p.pending
	}
	if shader.Directives.Fragment != "" && stage != StageVertex {
		return &ParseError{Shader: shader.Name, Attribute: "fragment", Line: name.Line, Column: name.Column,
			Message: "fragment directive only applies to vertex shaders"}
	}

	params, err := p.parameters(&shader, paramToks)
	if err != nil {
		return err
	}
	shader.Parameters = params

	p.file.Shaders = append(p.file.Shaders, shader)
	p.refs = append(p.refs, refs)
	return nil
}

func (p *parser) parameters(shader *Shader, toks []Token) ([]Parameter, error) {
	var params []Parameter
	declared := make(map[string]bool)
	bindable := make(map[string]bool)

	if !(len(toks) == 0 || (len(toks) == 1 && toks[0].Lexeme == "void")) {
		for _, seg := range splitTopLevel(toks, TokenComma) {
			if len(seg) == 0 {
				return nil, &ParseError{Shader: shader.Name, Line: shader.Line, Message: "empty parameter"}
			}
			param, ok, err := p.parameter(shader, seg)
			if err != nil {
				return nil, err
			}
			declared[param.Name] = true
			if ok {
				bindable[param.Name] = true
				params = append(params, param)
			}
		}
	}

	overrides := make([]string, 0, len(shader.Directives.Types))
	for name := range shader.Directives.Types {
		overrides = append(overrides, name)
	}
	sort.Strings(overrides)
	for _, name := range overrides {
		if bindable[name] {
			continue
		}
		msg := "type directive names an unknown parameter"
		if declared[name] {
			msg = "type directive names a parameter that is not a bindable resource"
		}
		return nil, &ParseError{Shader: shader.Name, Parameter: name, Attribute: "type", Line: shader.Line, Message: msg}
	}
	return params, nil
}

// parameter parses one "<type> <name> [[attr, ...]]" segment. bindable is false
// for stage built-ins.
func (p *parser) parameter(shader *Shader, seg []Token) (Parameter, bool, error) {
	attrAt := -1
	for i, t := range seg {
		if t.Kind == TokenAttrOpen {
			attrAt = i
			break
		}
	}

	var name Token
	end := len(seg)
	if attrAt >= 0 {
		end = attrAt
	}
	for i := end - 1; i >= 0; i-- {
		if seg[i].Kind == TokenIdent {
			name = seg[i]
			break
		}
	}
	if name.Lexeme == "" {
		return Parameter{}, false, &ParseError{Shader: shader.Name, Line: seg[0].Line, Column: seg[0].Column,
			Message: "missing parameter name"}
	}
	prmErr := func(tok Token, attr, msg string) *ParseError {
		return &ParseError{Shader: shader.Name, Parameter: name.Lexeme, Attribute: attr, Line: tok.Line, Column: tok.Column, Message: msg}
	}
	if attrAt < 0 {
		return Parameter{}, false, prmErr(name, "", "missing binding attribute (expected [[buffer(n)]], [[texture(n)]] or [[sampler(n)]])")
	}

	var attrs []attribute
	for i := attrAt; i < len(seg); {
		if seg[i].Kind != TokenAttrOpen {
			return Parameter{}, false, prmErr(seg[i], "", "unexpected "+seg[i].Kind.String()+" after attributes")
		}
		j := i + 1
		for j < len(seg) && seg[j].Kind != TokenAttrClose {
			j++
		}
		if j == len(seg) {
			return Parameter{}, false, prmErr(seg[i], "", "unterminated attribute")
		}
		block, err := parseAttributes(seg[i+1 : j])
		if err != nil {
			err.Shader, err.Parameter = shader.Name, name.Lexeme
			return Parameter{}, false, err
		}
		attrs = append(attrs, block...)
		i = j + 1
	}

	var (
		resource *attribute
		builtin  bool
		gated    bool
	)
	for i := range attrs {
		a := &attrs[i]
		switch {
		case a.name == "buffer" || a.name == "texture" || a.name == "sampler":
			if resource != nil {
				return Parameter{}, false, prmErr(a.tok, a.name, "multiple resource attributes")
			}
			resource = a
		case a.name == "function_constant":
			if len(a.args) != 1 || a.args[0].Kind != TokenIdent {
				return Parameter{}, false, prmErr(a.tok, a.name, "expected a function constant name")
			}
			gated = true
		case a.name == "raster_order_group":
		case builtinAttributes[a.name]:
			builtin = true
		default:
			return Parameter{}, false, prmErr(a.tok, a.name, "unsupported attribute")
		}
	}

	if resource == nil {
		if builtin {
			return Parameter{Name: name.Lexeme}, false, nil
		}
		return Parameter{}, false, prmErr(name, "", "missing resource attribute (expected buffer, texture or sampler)")
	}
	if builtin {
		return Parameter{}, false, prmErr(resource.tok, resource.name, "resource attribute combined with a stage built-in")
	}

	index, err := p.index(resource)
	if err != nil {
		err.Shader, err.Parameter = shader.Name, name.Lexeme
		return Parameter{}, false, err
	}

	kind := resourceAttributes[resource.name]
	param := Parameter{
		Name:       name.Lexeme,
		TypeName:   kind.HostTypeName(),
		Kind:       kind,
		Stage:      shader.Kind,
		Index:      index,
		IsOptional: gated,
	}
	if typ, optional, ok := shader.Directives.typeOverride(param.Name); ok {
		param.TypeName = typ
		param.IsOptional = param.IsOptional || optional
	}
	return param, true, nil
}

// index resolves the single argument of a binding attribute.
func (p *parser) index(a *attribute) (int, *ParseError) {
	attrErr := func(msg string) *ParseError {
		return &ParseError{Attribute: a.name, Line: a.tok.Line, Column: a.tok.Column, Message: msg}
	}
	switch len(a.args) {
	case 0:
		return 0, attrErr("missing binding index")
	case 1:
		t := a.args[0]
		switch t.Kind {
		case TokenNumber:
			n, ok := parseIntLiteral(t.Lexeme)
			if !ok || n < 0 {
				return 0, attrErr("binding index " + strconv.Quote(t.Lexeme) + " is not a non-negative integer")
			}
			return n, nil
		case TokenIdent:
			if n, ok := p.symbols[t.Lexeme]; ok {
				return n, nil
			}
			return 0, attrErr("unknown binding index constant " + strconv.Quote(t.Lexeme))
		}
	case 3:
		if a.args[0].Kind == TokenIdent && a.args[1].Kind == TokenColonColon && a.args[2].Kind == TokenIdent {
			q := a.args[0].Lexeme + "::" + a.args[2].Lexeme
			if n, ok := p.symbols[q]; ok {
				return n, nil
			}
			return 0, attrErr("unknown binding index constant " + strconv.Quote(q))
		}
	}
	return 0, attrErr("binding index must be an integer literal or enum constant")
}

// parseAttributes parses the contents of one [[...]] block.
func parseAttributes(toks []Token) ([]attribute, *ParseError) {
	if len(toks) == 0 {
		return nil, &ParseError{Message: "empty attribute"}
	}
	var out []attribute
	for _, item := range splitTopLevel(toks, TokenComma) {
		if len(item) == 0 || item[0].Kind != TokenIdent {
			tok := toks[0]
			if len(item) > 0 {
				tok = item[0]
			}
			return nil, errorAt(tok, "malformed attribute")
		}
		a := attribute{name: item[0].Lexeme, tok: item[0]}
		rest := item[1:]
		if len(rest) > 0 {
			if rest[0].Kind != TokenLeftParen || rest[len(rest)-1].Kind != TokenRightParen {
				return nil, &ParseError{Attribute: a.name, Line: rest[0].Line, Column: rest[0].Column, Message: "malformed attribute arguments"}
			}
			a.args = rest[1 : len(rest)-1]
		}
		out = append(out, a)
	}
	return out, nil
}

func (p *parser) attributeBlock() ([]attribute, error) {
	open := p.next()
	var toks []Token
	for !p.at(TokenAttrClose) {
		if p.at(TokenEOF) {
			return nil, errorAt(open, "unterminated attribute")
		}
		toks = append(toks, p.next())
	}
	p.next()
	attrs, err := parseAttributes(toks)
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

// constantDecl handles a top-level "constant ..." statement. Only declarations
// carrying [[function_constant(i)]] are recorded.
func (p *parser) constantDecl() error {
	kw := p.next()
	toks := p.statementTokens()

	attrAt := -1
	for i, t := range toks {
		if t.Kind == TokenAttrOpen {
			attrAt = i
			break
		}
	}
	if attrAt < 0 {
		return nil
	}
	closeAt := attrAt + 1
	for closeAt < len(toks) && toks[closeAt].Kind != TokenAttrClose {
		closeAt++
	}
	if closeAt == len(toks) {
		return errorAt(toks[attrAt], "unterminated attribute")
	}
	attrs, perr := parseAttributes(toks[attrAt+1 : closeAt])
	if perr != nil {
		return perr
	}
	var fc *attribute
	for i := range attrs {
		if attrs[i].name == "function_constant" {
			fc = &attrs[i]
		}
	}
	if fc == nil {
		return nil
	}

	decl := toks[:attrAt]
	if len(decl) < 2 || decl[len(decl)-1].Kind != TokenIdent {
		return errorAt(kw, "malformed function constant declaration")
	}
	name := decl[len(decl)-1]
	var spelling strings.Builder
	for _, t := range decl[:len(decl)-1] {
		spelling.WriteString(t.Lexeme)
	}
	typ, ok := parseConstantType(strings.TrimPrefix(spelling.String(), "metal::"))
	if !ok {
		return &ParseError{Parameter: name.Lexeme, Attribute: "function_constant", Line: name.Line, Column: name.Column,
			Message: "unsupported function constant type " + strconv.Quote(spelling.String())}
	}
	index, perr := p.index(fc)
	if perr != nil {
		perr.Parameter = name.Lexeme
		return perr
	}

	for _, c := range p.file.Constants {
		switch {
		case c.Name == name.Lexeme:
			return &ParseError{Parameter: name.Lexeme, Attribute: "function_constant", Line: name.Line, Column: name.Column,
				Message: "duplicate function constant"}
		case c.Index == index:
			return &ParseError{Parameter: name.Lexeme, Attribute: "function_constant", Line: name.Line, Column: name.Column,
				Message: "function constant index " + strconv.Itoa(index) + " already used by " + c.Name}
		}
	}
	p.file.Constants = append(p.file.Constants, FunctionConstant{Name: name.Lexeme, Type: typ, Index: index})
	return nil
}

// enumDecl records enum members so they can be used as binding indices.
func (p *parser) enumDecl() error {
	p.next()
	var enumName string
	for !p.at(TokenLeftBrace) {
		tok := p.peek()
		switch tok.Kind {
		case TokenEOF, TokenSemicolon:
			p.skipStatement()
			return nil
		case TokenIdent:
			if enumName == "" && tok.Lexeme != "class" && tok.Lexeme != "struct" {
				enumName = tok.Lexeme
			}
		case TokenOther:
			if tok.Lexeme == ":" {
				// underlying type follows; stop naming
				p.next()
				for p.at(TokenIdent) || p.at(TokenColonColon) {
					p.next()
				}
				continue
			}
		}
		p.next()
	}

	body := p.block()
	next, nextKnown := 0, true
	for _, member := range splitTopLevel(body, TokenComma) {
		if len(member) == 0 || member[0].Kind != TokenIdent {
			continue
		}
		value, known := next, nextKnown
		if len(member) >= 3 && member[1].Kind == TokenEqual {
			value, known = p.constValue(member[2:])
		}
		nextKnown = known
		if !known {
			continue
		}
		p.symbols[member[0].Lexeme] = value
		if enumName != "" {
			p.symbols[enumName+"::"+member[0].Lexeme] = value
		}
		next = value + 1
	}
	p.skipStatement()
	return nil
}

func (p *parser) constValue(toks []Token) (int, bool) {
	if len(toks) != 1 {
		return 0, false
	}
	switch toks[0].Kind {
	case TokenNumber:
		return parseIntLiteral(toks[0].Lexeme)
	case TokenIdent:
		n, ok := p.symbols[toks[0].Lexeme]
		return n, ok
	}
	return 0, false
}

// define records "#define NAME <int>" macros.
func (p *parser) define(tok Token) {
	fields := strings.Fields(tok.Lexeme)
	if len(fields) != 3 || fields[0] != "define" {
		return
	}
	if n, ok := parseIntLiteral(strings.Trim(fields[2], "()")); ok {
		p.symbols[fields[1]] = n
	}
}

func (p *parser) namespace() error {
	p.next()
	for p.at(TokenIdent) || p.at(TokenColonColon) {
		p.next()
	}
	if p.at(TokenLeftBrace) {
		p.next()
		p.nsDepth++
		return nil
	}
	p.skipStatement()
	return nil
}

// skipStatement consumes tokens up to and including the next top-level ';' or
// balanced '{...}' block (and a ';' directly after it). A '}' closing an
// enclosing namespace is left in place.
func (p *parser) skipStatement() {
	var head []Token
	for {
		switch p.peek().Kind {
		case TokenEOF, TokenRightBrace:
			return
		case TokenSemicolon:
			p.next()
			return
		case TokenLeftBrace:
			body := p.block()
			if name := functionName(head); name != "" {
				p.recordHelper(name, head, body)
			}
			if p.at(TokenSemicolon) {
				p.next()
			}
			return
		default:
			head = append(head, p.next())
		}
	}
}

// functionName returns the name of the function defined by the declaration
// head, or "" when head is not a function signature.
func functionName(head []Token) string {
	angle := 0
	for i, tok := range head {
		switch tok.Kind {
		case TokenLess:
			angle++
		case TokenGreater:
			angle--
		case TokenLeftParen:
			if angle == 0 && i > 0 && head[i-1].Kind == TokenIdent {
				return head[i-1].Lexeme
			}
			return ""
		}
	}
	return ""
}

// recordHelper remembers the identifiers used by a non-entry function.
// Overloads share one entry.
func (p *parser) recordHelper(name string, head, body []Token) {
	refs := p.helpers[name]
	if refs == nil {
		refs = make(map[string]bool)
		p.helpers[name] = refs
	}
	for _, list := range [][]Token{head, body} {
		for _, t := range list {
			if t.Kind == TokenIdent && t.Lexeme != name {
				refs[t.Lexeme] = true
			}
		}
	}
}

// statementTokens consumes up to the next top-level ';' and returns the tokens
// before it, skipping comments.
func (p *parser) statementTokens() []Token {
	var out []Token
	depth := 0
	for !p.at(TokenEOF) {
		tok := p.next()
		switch tok.Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			depth--
		case TokenSemicolon:
			if depth <= 0 {
				return out
			}
		case TokenComment:
			continue
		}
		out = append(out, tok)
	}
	return out
}

// block consumes a balanced '{...}' starting at the current '{' and returns the
// tokens inside it.
func (p *parser) block() []Token {
	p.next()
	var out []Token
	depth := 1
	for !p.at(TokenEOF) {
		tok := p.next()
		switch tok.Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			depth--
			if depth == 0 {
				return out
			}
		}
		out = append(out, tok)
	}
	return out
}

// parenContents consumes tokens up to the ')' matching the '(' just consumed
// and returns the tokens between them.
func (p *parser) parenContents(owner Token) ([]Token, error) {
	var out []Token
	depth := 0
	for {
		tok := p.next()
		switch tok.Kind {
		case TokenEOF:
			return nil, &ParseError{Shader: owner.Lexeme, Line: owner.Line, Column: owner.Column, Message: "unterminated parameter list"}
		case TokenComment:
			continue
		case TokenLeftParen:
			depth++
		case TokenRightParen:
			if depth == 0 {
				return out, nil
			}
			depth--
		}
		out = append(out, tok)
	}
}

// attachConstants gives each entry point the function constants it uses,
// directly or through the helper functions it calls.
func (p *parser) attachConstants() {
	for i := range p.file.Shaders {
		used := p.reachable(p.refs[i])
		for _, c := range p.file.Constants {
			if used[c.Name] {
				p.file.Shaders[i].FunctionConstants = append(p.file.Shaders[i].FunctionConstants, c)
			}
		}
	}
}

// reachable closes refs over the helpers they name.
func (p *parser) reachable(refs map[string]bool) map[string]bool {
	used := make(map[string]bool, len(refs))
	var queue []string
	for name := range refs {
		used[name] = true
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		name := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for ref := range p.helpers[name] {
			if !used[ref] {
				used[ref] = true
				queue = append(queue, ref)
			}
		}
	}
	return used
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind TokenKind) bool {
	return p.toks[p.pos].Kind == kind
}

// splitTopLevel splits toks on sep tokens that are not nested in (), <>, []
// or [[ ]].
func splitTopLevel(toks []Token, sep TokenKind) [][]Token {
	var (
		out   [][]Token
		cur   []Token
		depth int
	)
	for _, t := range toks {
		switch t.Kind {
		case TokenLeftParen, TokenLess, TokenLeftBracket, TokenAttrOpen, TokenLeftBrace:
			depth++
		case TokenRightParen, TokenGreater, TokenRightBracket, TokenAttrClose, TokenRightBrace:
			depth--
		case TokenComment:
			continue
		}
		if t.Kind == sep && depth == 0 {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 || len(out) > 0 {
		out = append(out, cur)
	}
	return out
}

// parseIntLiteral parses decimal, hex, octal and binary integer literals with
// optional u/l suffixes.
func parseIntLiteral(s string) (int, bool) {
	s = strings.TrimRight(s, "uUlL")
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
