// Package domain holds the core types of the health-probe system: the
// Verdict produced by each probe execution, the health State enumeration,
// probe Annotations, and the error taxonomy for registration failures.
package domain
