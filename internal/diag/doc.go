// Package diag carries engine notices: the observations an analysis run
// makes about its own inputs. A malformed pattern, an unparsable rule
// condition or an unreadable file is recorded here and the run continues
// with the defective piece dropped.
//
// Notices are not findings. Rule violations live in the rules package and
// have their own severity scale; diag.Severity grades the run itself.
package diag
