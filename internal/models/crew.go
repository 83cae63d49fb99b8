package models

import "strings"

// CrewMember is one entry of a flight's crew roster
type CrewMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// RoleSet is the user-managed set of crew role labels (PIC, SIC, Instructor, ...)
type RoleSet struct {
	labels []string
}

// NewRoleSet builds a role set, dropping blanks and case-insensitive duplicates
func NewRoleSet(labels []string) RoleSet {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		key := strings.ToLower(l)
		if l == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return RoleSet{labels: out}
}

// Contains reports whether role is a known label, ignoring case
func (s RoleSet) Contains(role string) bool {
	for _, l := range s.labels {
		if strings.EqualFold(l, strings.TrimSpace(role)) {
			return true
		}
	}
	return false
}

// Labels returns the labels in insertion order
func (s RoleSet) Labels() []string {
	return append([]string(nil), s.labels...)
}

// UnknownRoles returns the crew roles that are not part of the set
func (s RoleSet) UnknownRoles(crew []CrewMember) []string {
	var unknown []string
	for _, m := range crew {
		if m.Role != "" && !s.Contains(m.Role) {
			unknown = append(unknown, m.Role)
		}
	}
	return unknown
}
