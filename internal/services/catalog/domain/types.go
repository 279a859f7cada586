// Package domain defines types and ports for the commercial service catalog
package domain

// ServiceContext describes what a commercial service sells, for prompt
// assembly. All fields are free text maintained by the sales team
type ServiceContext struct {
	ID             string
	Name           string
	Description    string
	TargetProblems string
	TargetKeywords string
}
