package domain

// CheckedContent tallies external content scanned by link-checking
// collaborators. Counters are summed and lists deduplicated on merge.
type CheckedContent struct {
	FileCount          int      `json:"checkedFileCount,omitempty"`
	FileSizes          int64    `json:"checkedFilesizes,omitempty"`
	RepoNames          []string `json:"checkedRepoNames,omitempty"`
	FilenameExtensions []string `json:"checkedFilenameExtensions,omitempty"`
}

// IsZero reports whether nothing was checked.
func (c CheckedContent) IsZero() bool {
	return c.FileCount == 0 && c.FileSizes == 0 && len(c.RepoNames) == 0 && len(c.FilenameExtensions) == 0
}

// Merge adds other into c. Only content with a positive file count counts.
func (c *CheckedContent) Merge(other CheckedContent) {
	if other.FileCount <= 0 {
		return
	}
	c.FileCount += other.FileCount
	c.FileSizes += other.FileSizes
	c.RepoNames = appendUnique(c.RepoNames, other.RepoNames...)
	c.FilenameExtensions = appendUnique(c.FilenameExtensions, other.FilenameExtensions...)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// Accumulator collects notices and checked-content tallies for one check.
// It supplies no default field name or row ID; callers set those on each
// notice they add.
type Accumulator struct {
	notices []Notice
	checked CheckedContent
}

// Add appends a notice.
func (a *Accumulator) Add(n Notice) {
	a.notices = append(a.notices, n)
}

// AddAll appends notices, filling empty context fields from ctx.
func (a *Accumulator) AddAll(notices []Notice, ctx Notice) {
	for _, n := range notices {
		a.notices = append(a.notices, n.Tagged(ctx))
	}
}

// Merge folds checked-content tallies from a sub-check into the accumulator.
func (a *Accumulator) Merge(c CheckedContent) {
	a.checked.Merge(c)
}

// Len returns the number of notices collected so far.
func (a *Accumulator) Len() int {
	return len(a.notices)
}

// Notices returns the collected notices.
func (a *Accumulator) Notices() []Notice {
	return a.notices
}

// Checked returns the merged checked-content tally.
func (a *Accumulator) Checked() CheckedContent {
	return a.checked
}
