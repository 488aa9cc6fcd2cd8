package diag

// Notice is a single engine observation: a dropped pattern, a skipped rule,
// an unreadable file. Notices never abort a run; they explain what the run
// silently degraded around.
type Notice struct {
	Severity Severity
	Code     Code
	// Path names the input the notice is about: a catalog file during
	// loading, a Java source during analysis. Empty for run-level notices.
	Path    string
	Message string
	// Detail carries the offending fragment (the pattern text, the
	// expression) when there is one.
	Detail string
}
