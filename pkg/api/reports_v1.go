// pkg/api/reports_v1.go
package api

// ReportV1 is the stable JSON schema for one hashed input.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	Name   string `json:"name"`
	Digest string `json:"digest"`
	Bytes  int    `json:"bytes"`
	Blocks uint64 `json:"blocks"`
	Engine int    `json:"engine"`
}
