// Package cascade implements the country → city dependent selection used by the
// tournament and registration forms.
package cascade

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Dosada05/chess-portal/models"
)

var (
	ErrCitiesLoading    = errors.New("cities are still loading")
	ErrCityNotInCountry = errors.New("city does not belong to the selected country")
	ErrSelectorClosed   = errors.New("selector is closed")
)

// Fetcher loads the cities of a country.
type Fetcher func(ctx context.Context, countryID int) ([]models.City, error)

// FailureFunc is told about fetches that failed and were still current.
type FailureFunc func(countryID int, err error)

// State is a snapshot of the selection.
type State struct {
	CountryID  int           `json:"country_id"`
	CityID     int           `json:"city_id"`
	Cities     []models.City `json:"cities"`
	Loading    bool          `json:"loading"`
	Generation uint64        `json:"generation"`
	Error      string        `json:"error,omitempty"`
}

// ResolvedCity reports the selected city once the cascade has settled on one.
func (s State) ResolvedCity() (int, bool) {
	return s.CityID, s.CityID != 0 && !s.Loading
}

// SelectedCity returns the option of the resolved city from this snapshot.
func (s State) SelectedCity() (models.City, bool) {
	id, ok := s.ResolvedCity()
	if !ok {
		return models.City{}, false
	}
	for _, c := range s.Cities {
		if c.ID == id {
			return c, true
		}
	}
	return models.City{}, false
}

// Selector keeps a country and city selection consistent. Every country change
// bumps the generation; a fetch result is applied only if it belongs to the
// current generation, so a slow response for an older country is dropped.
type Selector struct {
	fetch     Fetcher
	onFailure FailureFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	pendingCity int
	cancelFetch context.CancelFunc
	done        chan struct{}
	closed      bool
}

func NewSelector(fetch Fetcher, onFailure FailureFunc) *Selector {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	close(done)
	return &Selector{
		fetch:     fetch,
		onFailure: onFailure,
		ctx:       ctx,
		cancel:    cancel,
		done:      done,
	}
}

// SelectCountry clears the city immediately and starts loading the cities of
// countryID. A zero id leaves the city list empty without fetching.
func (s *Selector) SelectCountry(countryID int) (State, error) {
	return s.begin(countryID, 0)
}

// Preselect initialises the selection from existing data, e.g. an offering being
// edited: cityID is re-selected once the cities of countryID arrive, if it is
// one of them.
func (s *Selector) Preselect(countryID, cityID int) (State, error) {
	return s.begin(countryID, cityID)
}

func (s *Selector) begin(countryID, pendingCity int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.snapshot(), ErrSelectorClosed
	}

	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.release()

	s.state.Generation++
	s.state.CountryID = countryID
	s.state.CityID = 0
	s.state.Cities = nil
	s.state.Error = ""
	s.pendingCity = 0

	if countryID == 0 {
		s.state.Loading = false
		return s.snapshot(), nil
	}

	s.state.Loading = true
	s.pendingCity = pendingCity
	s.done = make(chan struct{})

	fetchCtx, cancel := context.WithCancel(s.ctx)
	s.cancelFetch = cancel
	gen := s.state.Generation

	s.wg.Add(1)
	go s.run(fetchCtx, gen, countryID)

	return s.snapshot(), nil
}

func (s *Selector) run(ctx context.Context, gen uint64, countryID int) {
	defer s.wg.Done()

	cities, err := s.fetch(ctx, countryID)

	s.mu.Lock()
	if gen != s.state.Generation || s.closed {
		s.mu.Unlock()
		return
	}

	s.state.Loading = false
	s.cancelFetch = nil
	if err != nil {
		s.state.Cities = nil
		s.state.Error = "failed to load cities"
		s.pendingCity = 0
		s.release()
		s.mu.Unlock()
		if s.onFailure != nil {
			s.onFailure(countryID, err)
		}
		return
	}

	s.state.Cities = cities
	if s.pendingCity != 0 && containsCity(cities, s.pendingCity) {
		s.state.CityID = s.pendingCity
	}
	s.pendingCity = 0
	s.release()
	s.mu.Unlock()
}

// SelectCity selects a city from the current options; zero clears the selection.
func (s *Selector) SelectCity(cityID int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.snapshot(), ErrSelectorClosed
	}
	if cityID == 0 {
		s.state.CityID = 0
		return s.snapshot(), nil
	}
	if s.state.Loading {
		return s.snapshot(), ErrCitiesLoading
	}
	if !containsCity(s.state.Cities, cityID) {
		return s.snapshot(), ErrCityNotInCountry
	}
	s.state.CityID = cityID
	return s.snapshot(), nil
}

// City returns the selected city option, if any.
func (s *Selector) City() (models.City, bool) {
	return s.State().SelectedCity()
}

func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Settled waits until the latest requested fetch has resolved.
func (s *Selector) Settled(ctx context.Context) (State, error) {
	for {
		s.mu.Lock()
		if !s.state.Loading || s.closed {
			st := s.snapshot()
			s.mu.Unlock()
			return st, nil
		}
		done := s.done
		s.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return s.State(), ctx.Err()
		}
	}
}

// Close cancels outstanding fetches and waits for them to return.
func (s *Selector) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.state.Loading = false
	s.release()
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// release wakes Settled waiters. Callers hold s.mu.
func (s *Selector) release() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// snapshot copies the state. Callers hold s.mu.
func (s *Selector) snapshot() State {
	st := s.state
	st.Cities = slices.Clone(s.state.Cities)
	if st.Cities == nil {
		st.Cities = []models.City{}
	}
	return st
}

func containsCity(cities []models.City, id int) bool {
	return slices.ContainsFunc(cities, func(c models.City) bool { return c.ID == id })
}
