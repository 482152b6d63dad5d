package notify

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/standup/pkg/generator"
)

// SharedImages wraps src so that every channel announcing the same topic gets
// the same illustration. Concurrent requests for one prompt share a single
// call and the last successful result is reused. Failures are not cached.
func SharedImages(src ImageSource) ImageSource {
	if src == nil {
		return nil
	}
	return &sharedImages{src: src}
}

type sharedImages struct {
	src   ImageSource
	group singleflight.Group

	mu     sync.Mutex
	prompt string
	ref    generator.ImageRef
}

func (s *sharedImages) GenerateImage(ctx context.Context, prompt string) (generator.ImageRef, error) {
	s.mu.Lock()
	if s.prompt == prompt && s.ref.URL != "" {
		ref := s.ref
		s.mu.Unlock()
		return ref, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(prompt, func() (any, error) {
		ref, err := s.src.GenerateImage(ctx, prompt)
		if err != nil {
			return generator.ImageRef{}, err
		}
		s.mu.Lock()
		s.prompt, s.ref = prompt, ref
		s.mu.Unlock()
		return ref, nil
	})
	if err != nil {
		return generator.ImageRef{}, err
	}
	return v.(generator.ImageRef), nil
}
