package stamp

import (
	"errors"
)

// Service is the batch coordinator. It applies one Spec to a list of paths,
// strictly one path at a time in input order, and never lets a failure on
// one path stop the others.
//
// Service holds no mutable state and is safe for concurrent use.
type Service struct {
	backend    Backend
	normalizer *Normalizer
	logger     Logger
}

// NewService creates a Service over the given backend.
func NewService(backend Backend, normalizer *Normalizer, logger Logger) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer(RealClock{})
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Service{
		backend:    backend,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Support returns the backend's field support.
func (s *Service) Support() Support {
	return s.backend.Support()
}

// Normalizer returns the normalizer used by ApplyInput.
func (s *Service) Normalizer() *Normalizer {
	return s.normalizer
}

// ApplyInput normalizes input and applies it to paths. A malformed input
// fails the whole call before any path is touched.
func (s *Service) ApplyInput(paths []string, mode LinkMode, input any) (BatchResult, error) {
	spec, err := s.normalizer.Normalize(input)
	if err != nil {
		return BatchResult{}, err
	}
	return s.Apply(paths, mode, spec), nil
}

// Apply applies spec to every path and returns one outcome per path, in
// input order. An empty path list yields an empty result.
func (s *Service) Apply(paths []string, mode LinkMode, spec Spec) BatchResult {
	result := BatchResult{Outcomes: make([]Outcome, 0, len(paths))}
	for _, p := range paths {
		result.Outcomes = append(result.Outcomes, s.applyOne(p, mode, spec))
	}

	if failed := len(result.Failed()); failed > 0 {
		s.logger.Warn("batch finished with failures", "paths", len(paths), "failed", failed, "mode", mode.String())
	} else {
		s.logger.Debug("batch finished", "paths", len(paths), "mode", mode.String())
	}
	return result
}

func (s *Service) applyOne(path string, mode LinkMode, spec Spec) Outcome {
	err := s.backend.Apply(path, mode, spec)
	if err == nil {
		s.logger.Debug("timestamps applied", "path", path, "spec", spec.String(), "mode", mode.String())
		return Outcome{Path: path}
	}

	// Keep the outcome contract even if a backend hands back a bare error.
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: KindIOFailure, Op: "apply", Path: path, Err: err}
	}
	s.logger.Warn("timestamps not applied", "path", path, "kind", e.Kind.String(), "error", e.Error())
	return Outcome{Path: path, Err: e}
}
