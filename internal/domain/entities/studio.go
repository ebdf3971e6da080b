package entities

import (
	"fmt"
	"sync"
	"time"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

type GenerationStatus string

const (
	StatusIdle      GenerationStatus = "idle"
	StatusLoading   GenerationStatus = "loading"
	StatusSucceeded GenerationStatus = "succeeded"
	StatusFailed    GenerationStatus = "failed"
)

const MissingInputsMessage = "Please upload a photo of a person and at least one clothing item."

type GenerationState struct {
	Status GenerationStatus
	Image  *valueobjects.ImageAsset
	Error  string
}

// StudioSnapshot is a copy of the studio state handed to callers and observers.
type StudioSnapshot struct {
	PersonImage   *valueobjects.ImageAsset
	ClothingItems []*ClothingItem
	Generation    GenerationState
	// Version grows by one with every change; observers may be called out of
	// order, so a higher version is always the newer state.
	Version uint64
}

func (s StudioSnapshot) CanGenerate() bool {
	return s.PersonImage != nil && len(s.ClothingItems) > 0 && s.Generation.Status != StatusLoading
}

type Observer func(StudioSnapshot)

// Studio holds the inputs and generation state of one user session.
// Input changes never touch the generation state; only Begin/Complete/Fail do.
type Studio struct {
	mu            sync.Mutex
	personImage   *valueobjects.ImageAsset
	clothingItems []*ClothingItem
	generation    GenerationState
	lastItemID    ClothingItemID
	version       uint64

	observers    map[int]Observer
	nextObserver int

	now func() time.Time
}

func NewStudio() *Studio {
	return &Studio{
		generation: GenerationState{Status: StatusIdle},
		observers:  make(map[int]Observer),
		now:        time.Now,
	}
}

func (s *Studio) Snapshot() StudioSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called after every change. The returned func
// removes the registration.
func (s *Studio) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Studio) SetPersonImage(image *valueobjects.ImageAsset) error {
	if image == nil {
		return failures.New(failures.Validation, "person image is required")
	}
	if !image.HasDimensions() {
		return failures.New(failures.Validation, "person image dimensions are unknown")
	}

	s.mutate(func() {
		s.personImage = image
	})
	return nil
}

func (s *Studio) RemovePersonImage() {
	s.mutate(func() {
		s.personImage = nil
	})
}

func (s *Studio) AddClothingItem(image *valueobjects.ImageAsset) (*ClothingItem, error) {
	if image == nil {
		return nil, failures.New(failures.Validation, "clothing image is required")
	}

	var item *ClothingItem
	s.mutate(func() {
		id := ClothingItemID(s.now().UnixNano())
		if id <= s.lastItemID {
			id = s.lastItemID + 1
		}
		s.lastItemID = id

		item = NewClothingItem(id, image)
		s.clothingItems = append(s.clothingItems, item)
	})
	return item, nil
}

func (s *Studio) RemoveClothingItem(id ClothingItemID) error {
	found := false
	s.mutate(func() {
		for i, item := range s.clothingItems {
			if item.ID() == id {
				s.clothingItems = append(s.clothingItems[:i:i], s.clothingItems[i+1:]...)
				found = true
				return
			}
		}
	})

	if !found {
		return failures.New(failures.NotFound, fmt.Sprintf("clothing item not found: %d", id))
	}
	return nil
}

// BeginGeneration moves the studio to Loading and returns the inputs to use.
func (s *Studio) BeginGeneration() (*valueobjects.ImageAsset, []*valueobjects.ImageAsset, error) {
	s.mu.Lock()

	if s.generation.Status == StatusLoading {
		s.mu.Unlock()
		return nil, nil, failures.New(failures.GenerationInFlight, "a generation is already in progress")
	}

	if s.personImage == nil || len(s.clothingItems) == 0 {
		s.mu.Unlock()
		return nil, nil, failures.New(failures.Validation, MissingInputsMessage)
	}

	person := s.personImage
	clothing := make([]*valueobjects.ImageAsset, 0, len(s.clothingItems))
	for _, item := range s.clothingItems {
		clothing = append(clothing, item.Image())
	}

	s.generation = GenerationState{Status: StatusLoading}
	s.version++
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
	return person, clothing, nil
}

func (s *Studio) CompleteGeneration(image *valueobjects.ImageAsset) {
	s.finish(GenerationState{Status: StatusSucceeded, Image: image})
}

func (s *Studio) FailGeneration(message string) {
	s.finish(GenerationState{Status: StatusFailed, Error: message})
}

func (s *Studio) finish(state GenerationState) {
	s.mu.Lock()
	if s.generation.Status != StatusLoading {
		s.mu.Unlock()
		return
	}
	s.generation = state
	s.version++
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
}

func (s *Studio) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.version++
	snap, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
}

func (s *Studio) snapshotLocked() StudioSnapshot {
	items := make([]*ClothingItem, len(s.clothingItems))
	copy(items, s.clothingItems)

	return StudioSnapshot{
		PersonImage:   s.personImage,
		ClothingItems: items,
		Generation:    s.generation,
		Version:       s.version,
	}
}

func (s *Studio) observersLocked() []Observer {
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	return observers
}

func notify(observers []Observer, snap StudioSnapshot) {
	for _, o := range observers {
		o(snap)
	}
}
