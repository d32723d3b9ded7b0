package memstore

import (
	"context"
	"sync"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
)

type profileStore struct {
	mu       sync.RWMutex
	profiles map[derive.RecordAddress]entity.Profile
	handles  map[string]derive.RecordAddress
}

var _ repository.ProfileRepository = (*profileStore)(nil)

func newProfileStore() *profileStore {
	return &profileStore{
		profiles: make(map[derive.RecordAddress]entity.Profile),
		handles:  make(map[string]derive.RecordAddress),
	}
}

func (p *profileStore) Create(ctx context.Context, profile *entity.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.profiles[profile.Address]; exists {
		return repository.ErrProfileExists
	}
	if _, taken := p.handles[profile.Handle]; taken {
		return repository.ErrHandleTaken
	}
	p.profiles[profile.Address] = copyProfile(profile)
	p.handles[profile.Handle] = profile.Address
	return nil
}

func (p *profileStore) Update(ctx context.Context, profile *entity.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.profiles[profile.Address]; !exists {
		return repository.ErrProfileNotFound
	}
	p.profiles[profile.Address] = copyProfile(profile)
	return nil
}

func (p *profileStore) FindByAddress(ctx context.Context, address derive.RecordAddress) (*entity.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[address]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	found := copyProfile(&profile)
	return &found, nil
}

func copyProfile(p *entity.Profile) entity.Profile {
	c := *p
	c.Skills = append([]string(nil), p.Skills...)
	c.ContactPrices = append([]entity.ContactPriceTier(nil), p.ContactPrices...)
	return c
}
