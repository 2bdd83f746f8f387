package coordinator

import (
	"fmt"
	"io"
	"strings"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/pkg/filestore"
)

// Upload is a sample file handed over by the transport layer
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// RecordInput is the field map of a create or update
type RecordInput struct {
	SystemName  string
	Module      string
	Feature     string
	Client      string
	Source      string
	Description string

	SampleFile *Upload
	SampleURL  string
	// RemoveSample clears the current sample on update when no replacement is given
	RemoveSample bool
}

func (in *RecordInput) value(c entity.Category) string {
	switch c {
	case entity.CategorySystemName:
		return in.SystemName
	case entity.CategoryModule:
		return in.Module
	case entity.CategoryFeature:
		return in.Feature
	case entity.CategoryClient:
		return in.Client
	case entity.CategorySource:
		return in.Source
	}
	return ""
}

var fieldLabels = map[string]string{
	"system_name": "System Name",
	"module":      "Module",
	"feature":     "Feature",
	"client":      "Client",
	"source":      "Source",
	"description": "Description",
}

// normalize trims every text field in place
func (in *RecordInput) normalize() {
	in.SystemName = strings.TrimSpace(in.SystemName)
	in.Module = strings.TrimSpace(in.Module)
	in.Feature = strings.TrimSpace(in.Feature)
	in.Client = strings.TrimSpace(in.Client)
	in.Source = strings.TrimSpace(in.Source)
	in.Description = strings.TrimSpace(in.Description)
	in.SampleURL = strings.TrimSpace(in.SampleURL)
}

// validate checks required fields. On create exactly one of sample file and
// sample URL is required; on update both may be absent.
func (in *RecordInput) validate(requireSample bool) error {
	in.normalize()
	v := apperror.NewValidationError()

	for _, c := range entity.Categories {
		if in.value(c) == "" {
			v.Add(c.Column(), fmt.Sprintf("Field '%s' is required", fieldLabels[c.Column()]))
		}
	}
	if in.Description == "" {
		v.Add("description", "Field 'Description' is required")
	}

	hasFile := in.SampleFile != nil && in.SampleFile.Content != nil
	hasURL := in.SampleURL != ""
	switch {
	case hasFile && hasURL:
		v.Add("sample", "Provide either a sample file or a sample URL, not both")
	case !hasFile && !hasURL && requireSample:
		v.Add("sample", "Either a sample file or a sample URL is required")
	case hasURL && !filestore.IsRemoteURL(in.SampleURL):
		v.Add("sample_url", "Sample URL must be an absolute http(s) URL")
	}

	return v.OrNil()
}
