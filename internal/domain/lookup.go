package domain

// QuoteQuery asks whether a quoted phrase occurs in the source-language text
// of one verse.
type QuoteQuery struct {
	LanguageCode string
	FieldName    string
	Quote        string
	Occurrence   string
	BookID       string
	C            string
	V            string
	Location     string
}

// LinkResult is what an outbound-link check reports: its own notices plus a
// tally of the external content it scanned.
type LinkResult struct {
	Notices []Notice
	Checked CheckedContent
}
