package latex

import "maps"

// Signature describes arguments taken by a macro or an environment.
//
// Args is a sequence of argument specifiers: "m" for mandatory argument ({...} or
// a single token), "o" for optional [...] argument and "s" for optional star.
// Spaces are ignored. TextArgs makes arguments to be parsed in text mode even
// when macro is used in math mode (like \text or \mbox).
type Signature struct {
	Args     string
	TextArgs bool
}

// Arity returns number of argument specifiers in signature
func (s Signature) Arity() (n int) {
	for _, c := range s.Args {
		if c != ' ' {
			n++
		}
	}

	return
}

var macros = map[string]Signature{
	// sectioning
	"part":          {Args: "s o m"},
	"chapter":       {Args: "s o m"},
	"section":       {Args: "s o m"},
	"subsection":    {Args: "s o m"},
	"subsubsection": {Args: "s o m"},
	"paragraph":     {Args: "s o m"},
	"subparagraph":  {Args: "s o m"},

	// text formatting
	"textbf":    {Args: "m"},
	"textit":    {Args: "m"},
	"textmd":    {Args: "m"},
	"textup":    {Args: "m"},
	"textsl":    {Args: "m"},
	"textsc":    {Args: "m"},
	"textsf":    {Args: "m"},
	"textrm":    {Args: "m"},
	"texttt":    {Args: "m"},
	"emph":      {Args: "m"},
	"underline": {Args: "m"},
	"sout":      {Args: "m"},
	"footnote":  {Args: "o m"},
	"caption":   {Args: "o m"},
	"textcolor": {Args: "m m"},
	"color":     {Args: "m"},

	// text inside math
	"text":       {Args: "m", TextArgs: true},
	"textnormal": {Args: "m", TextArgs: true},
	"mbox":       {Args: "m", TextArgs: true},
	"hbox":       {Args: "m", TextArgs: true},

	// math
	"frac":         {Args: "m m"},
	"dfrac":        {Args: "m m"},
	"tfrac":        {Args: "m m"},
	"binom":        {Args: "m m"},
	"sqrt":         {Args: "o m"},
	"mathbf":       {Args: "m"},
	"mathrm":       {Args: "m"},
	"mathit":       {Args: "m"},
	"mathsf":       {Args: "m"},
	"mathtt":       {Args: "m"},
	"mathcal":      {Args: "m"},
	"mathbb":       {Args: "m"},
	"mathfrak":     {Args: "m"},
	"operatorname": {Args: "s m"},
	"hat":          {Args: "m"},
	"bar":          {Args: "m"},
	"vec":          {Args: "m"},
	"dot":          {Args: "m"},
	"ddot":         {Args: "m"},
	"tilde":        {Args: "m"},
	"widehat":      {Args: "m"},
	"widetilde":    {Args: "m"},
	"overline":     {Args: "m"},
	"underbrace":   {Args: "m"},
	"overbrace":    {Args: "m"},

	// references and links
	"label":           {Args: "m"},
	"ref":             {Args: "m"},
	"eqref":           {Args: "m"},
	"cite":            {Args: "o m"},
	"url":             {Args: "m"},
	"href":            {Args: "m m"},
	"includegraphics": {Args: "s o m"},

	// structure and definitions
	"item":           {Args: "o"},
	"\\":             {Args: "s o"},
	"documentclass":  {Args: "o m"},
	"usepackage":     {Args: "o m"},
	"input":          {Args: "m"},
	"include":        {Args: "m"},
	"newcommand":     {Args: "s m o o m"},
	"renewcommand":   {Args: "s m o o m"},
	"newenvironment": {Args: "s m o o m m"},
	"def":            {Args: "m m"},
	"setlength":      {Args: "m m"},
	"vspace":         {Args: "s m"},
	"hspace":         {Args: "s m"},
	"symbol":         {Args: "m"},

	// tables
	"multicolumn": {Args: "m m m"},
	"multirow":    {Args: "m m m"},

	// problem statements
	"epigraph": {Args: "m m"},
	"exmp":     {Args: "m m"},
	"exmpfile": {Args: "m m m"},
}

var environments = map[string]Signature{
	"tabular":         {Args: "o m"},
	"tabular*":        {Args: "m o m"},
	"tabularx":        {Args: "m m"},
	"array":           {Args: "o m"},
	"minipage":        {Args: "o m"},
	"figure":          {Args: "o"},
	"figure*":         {Args: "o"},
	"table":           {Args: "o"},
	"table*":          {Args: "o"},
	"itemize":         {Args: "o"},
	"enumerate":       {Args: "o"},
	"description":     {Args: "o"},
	"thebibliography": {Args: "m"},
	"wrapfigure":      {Args: "o m m"},
	"problem":         {Args: "m m m m m"},
	"alignat":         {Args: "m"},
	"alignat*":        {Args: "m"},
}

var mathEnvironments = []string{
	"equation", "equation*", "align", "align*", "aligned", "alignat", "alignat*",
	"gather", "gather*", "gathered", "multline", "multline*", "split", "eqnarray",
	"eqnarray*", "cases", "dcases", "matrix", "pmatrix", "bmatrix", "Bmatrix",
	"vmatrix", "Vmatrix", "smallmatrix", "array", "displaymath", "math",
}

var verbatimEnvironments = []string{
	"verbatim", "verbatim*", "Verbatim", "lstlisting", "minted", "comment", "filecontents",
}

// DefaultSignatures returns a fresh copy of known macro signatures
func DefaultSignatures() map[string]Signature {
	return maps.Clone(macros)
}

// DefaultEnvSignatures returns a fresh copy of known environment signatures
func DefaultEnvSignatures() map[string]Signature {
	return maps.Clone(environments)
}

// MathEnvironments returns set of environments with content in math mode
func MathEnvironments() map[string]bool {
	return set(mathEnvironments)
}

// VerbatimEnvironments returns set of environments with opaque content
func VerbatimEnvironments() map[string]bool {
	return set(verbatimEnvironments)
}

func set(list []string) map[string]bool {
	s := make(map[string]bool, len(list))
	for _, v := range list {
		s[v] = true
	}

	return s
}
