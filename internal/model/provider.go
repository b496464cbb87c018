package model

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
)

// LoadOptions locates the two artifact files.
type LoadOptions struct {
	ModelPath        string
	ModelFormat      string
	PreprocessorPath string
	Threads          int
}

// StaticProvider holds artifacts loaded once at startup. It is never mutated
// after construction, so concurrent readers need no locking. There is no
// reload path: a Degraded provider stays Degraded until restart.
type StaticProvider struct {
	transformer Transformer
	classifier  Classifier
}

// NewStaticProvider wraps already-loaded artifacts. Either may be nil, which
// leaves the provider Degraded.
func NewStaticProvider(t Transformer, c Classifier) *StaticProvider {
	return &StaticProvider{transformer: t, classifier: c}
}

// Load reads both artifacts. Failures are logged, not returned: the service
// still starts, reports the failure through Status, and rejects predictions.
func Load(opts LoadOptions, logger *slog.Logger) *StaticProvider {
	p := &StaticProvider{}

	t, err := LoadColumnTransformer(opts.PreprocessorPath)
	if err != nil {
		logger.Error("could not load preprocessor", "path", opts.PreprocessorPath, "error", err)
	} else {
		p.transformer = t
		logger.Info("preprocessor loaded", "path", opts.PreprocessorPath, "outputs", t.NumOutputs())
	}

	c, err := LoadEnsemble(opts.ModelPath, opts.ModelFormat, opts.Threads)
	if err != nil {
		logger.Error("could not load model", "path", opts.ModelPath, "format", opts.ModelFormat, "error", err)
	} else {
		p.classifier = c
		logger.Info("model loaded", "path", opts.ModelPath, "format", opts.ModelFormat,
			"classes", c.NumClasses(), "features", c.NumFeatures())
	}

	if p.transformer != nil && p.classifier != nil {
		if err := CheckCompatible(p.transformer, p.classifier); err != nil {
			logger.Error("model rejected", "path", opts.ModelPath, "error", err)
			p.classifier = nil
		}
	}
	return p
}

// CheckCompatible verifies the classifier predicts the seven cover types and
// reads no more features than the transformer produces.
func CheckCompatible(t Transformer, c Classifier) error {
	if c.NumClasses() != domain.NumCoverTypes {
		return fmt.Errorf("model predicts %d classes, want %d", c.NumClasses(), domain.NumCoverTypes)
	}
	if c.NumFeatures() > t.NumOutputs() {
		return fmt.Errorf("model expects %d features but preprocessor produces %d", c.NumFeatures(), t.NumOutputs())
	}
	return nil
}

func (p *StaticProvider) Status() Status {
	return Status{
		ModelLoaded:        p.classifier != nil,
		PreprocessorLoaded: p.transformer != nil,
	}
}

func (p *StaticProvider) Artifacts() (Artifacts, error) {
	if !p.Status().Ready() {
		return Artifacts{}, domain.ErrUnavailable
	}
	return Artifacts{Transformer: p.transformer, Classifier: p.classifier}, nil
}
