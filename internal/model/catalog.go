// Package model defines the records exchanged between the lux server and its clients.
package model

// ObjectSummary is one row of a list response.
type ObjectSummary struct {
	// ID is the store's numeric identifier for the object.
	ID int64 `json:"id" yaml:"id"`

	// Label is the object's title as stored.
	Label string `json:"label" yaml:"label"`

	// Date is the object's free-text date.
	Date string `json:"date" yaml:"date"`

	// Agents holds comma-joined "name (role)" pairs, deduplicated and sorted
	// by name then role.
	Agents string `json:"agents" yaml:"agents"`

	// Classifiers holds comma-joined classifier names, deduplicated and sorted.
	Classifiers string `json:"classifiers" yaml:"classifiers"`
}

// DetailSummary is the headline section of a detail record.
// A nil *DetailSummary means the object does not exist.
type DetailSummary struct {
	AccessionNo string   `json:"accession_no" yaml:"accession_no"`
	Date        string   `json:"date" yaml:"date"`
	Places      []string `json:"places" yaml:"places"`
	Department  string   `json:"department" yaml:"department"`
}

// Production is a (role, agent) association for an object.
type Production struct {
	Part          string `json:"part" yaml:"part"`
	AgentName     string `json:"agent_name" yaml:"agent_name"`
	Timespan      string `json:"timespan" yaml:"timespan"`
	Nationalities string `json:"nationalities" yaml:"nationalities"`
}

// Reference is a typed piece of descriptive text attached to an object.
type Reference struct {
	Type    string `json:"type" yaml:"type"`
	Content string `json:"content" yaml:"content"`
}
