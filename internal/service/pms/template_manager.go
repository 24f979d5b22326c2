package pms

//go:generate $MOCKGEN -source=template_manager.go -destination=mocks/template_manager_mock.go

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/logger"
)

// TemplateManager generates download filenames from track tags.
type TemplateManager interface {
	// GetTrackFilename renders the configured filename template with the track tags.
	// The result has no extension and is not sanitized.
	GetTrackFilename(ctx context.Context, trackTags map[string]string) string
}

// TemplateManagerImpl implements the TemplateManager interface.
type TemplateManagerImpl struct {
	// trackFilenameTemplate is the template for track filenames, nil if it failed to parse.
	trackFilenameTemplate *template.Template
	// defaultTrackFilenameTemplate is the fallback template for track filenames.
	defaultTrackFilenameTemplate *template.Template
}

// NewTemplateManager creates a template manager from the configuration.
// An unparsable template is reported and replaced by the default one.
func NewTemplateManager(ctx context.Context, cfg *config.Config) TemplateManager {
	defaultTrackFilenameTemplate := template.Must(
		newFilenameTemplate("defaultTrackFilenameTemplate").Parse(config.DefaultTrackFilenameTemplate))

	var trackFilenameTemplate *template.Template

	if strings.TrimSpace(cfg.TrackFilenameTemplate) != "" {
		parsed, err := newFilenameTemplate("trackFilenameTemplate").Parse(cfg.TrackFilenameTemplate)
		if err != nil {
			logger.Errorf(ctx, "Failed to parse track filename template, using default: %v", err)
		} else {
			trackFilenameTemplate = parsed
		}
	}

	return &TemplateManagerImpl{
		trackFilenameTemplate:        trackFilenameTemplate,
		defaultTrackFilenameTemplate: defaultTrackFilenameTemplate,
	}
}

// GetTrackFilename renders the configured filename template with the track tags.
func (m *TemplateManagerImpl) GetTrackFilename(ctx context.Context, trackTags map[string]string) string {
	var buffer bytes.Buffer

	if m.trackFilenameTemplate != nil {
		err := m.trackFilenameTemplate.Execute(&buffer, trackTags)
		if err == nil && strings.TrimSpace(buffer.String()) != "" {
			return buffer.String()
		}

		if err != nil {
			logger.Errorf(ctx, "Failed to execute template, using default: %v", err)
		}

		buffer.Reset()
	}

	_ = m.defaultTrackFilenameTemplate.Execute(&buffer, trackTags) //nolint:errcheck // Default template is always valid.

	return buffer.String()
}

// newFilenameTemplate renders missing tags as empty strings.
func newFilenameTemplate(name string) *template.Template {
	return template.New(name).Option("missingkey=zero")
}
