package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/queue"

	"go.uber.org/zap"
)

// memStore is an in-memory backend for the repository interfaces. Units of
// work run one at a time and are undone from a snapshot when they fail.
type memStore struct {
	mu           sync.Mutex
	locations    map[int64]entity.Location
	reservations map[int64]entity.Reservation
	transactions map[int64]entity.Transaction
	nextID       int64

	decrementErr    error
	updateStatusErr error
}

type memSnapshot struct {
	locations    map[int64]entity.Location
	reservations map[int64]entity.Reservation
	transactions map[int64]entity.Transaction
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		locations:    map[int64]entity.Location{},
		reservations: map[int64]entity.Reservation{},
		transactions: map[int64]entity.Transaction{},
		nextID:       100,
	}
}

func copyMap[V any](in map[int64]V) map[int64]V {
	out := make(map[int64]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		locations:    copyMap(s.locations),
		reservations: copyMap(s.reservations),
		transactions: copyMap(s.transactions),
		nextID:       s.nextID,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.locations = snap.locations
	s.reservations = snap.reservations
	s.transactions = snap.transactions
	s.nextID = snap.nextID
}

func (s *memStore) putLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

func (s *memStore) putReservation(r entity.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.ID] = r
}

func (s *memStore) location(id int64) entity.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locations[id]
}

func (s *memStore) reservation(id int64) entity.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}

func (s *memStore) transaction(id int64) entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions[id]
}

func (s *memStore) reservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

func (s *memStore) repository() *repository.Repository {
	v := &memView{s: s}
	return &repository.Repository{
		Location:    memLocations{v},
		Reservation: memReservations{v},
		Transaction: memTransactions{v},
		UoW:         memUoW{s},
	}
}

type memView struct {
	s    *memStore
	inTx bool
}

// run takes the store lock unless the caller already holds it through a
// unit of work.
func (v *memView) run(fn func()) {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	fn()
}

type memUoW struct{ s *memStore }

func (u memUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepos) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	snap := u.s.snapshot()
	v := &memView{s: u.s, inTx: true}
	err := fn(ctx, repository.TxRepos{
		Location:    memLocations{v},
		Reservation: memReservations{v},
		Transaction: memTransactions{v},
	})
	if err != nil {
		u.s.restore(snap)
	}
	return err
}

type memLocations struct{ v *memView }

func (m memLocations) FindByID(_ context.Context, id int64) (*entity.Location, error) {
	var out *entity.Location
	m.v.run(func() {
		if l, ok := m.v.s.locations[id]; ok {
			out = &l
		}
	})
	return out, nil
}

func (m memLocations) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Location, error) {
	return m.FindByID(ctx, id)
}

func (m memLocations) DecrementAvailableSlots(_ context.Context, id int64) (bool, error) {
	var ok bool
	var err error
	m.v.run(func() {
		if m.v.s.decrementErr != nil {
			err = m.v.s.decrementErr
			return
		}
		l, found := m.v.s.locations[id]
		if !found || l.AvailableSlots <= 0 {
			return
		}
		l.AvailableSlots--
		m.v.s.locations[id] = l
		ok = true
	})
	return ok, err
}

func (m memLocations) IncrementAvailableSlots(_ context.Context, id int64) (bool, error) {
	var ok bool
	m.v.run(func() {
		l, found := m.v.s.locations[id]
		if !found || l.AvailableSlots >= l.TotalSlots {
			return
		}
		l.AvailableSlots++
		m.v.s.locations[id] = l
		ok = true
	})
	return ok, nil
}

type memReservations struct{ v *memView }

func (m memReservations) Create(_ context.Context, r *entity.Reservation) error {
	m.v.run(func() {
		m.v.s.nextID++
		r.ID = m.v.s.nextID
		m.v.s.reservations[r.ID] = *r
	})
	return nil
}

func (m memReservations) FindByID(_ context.Context, id int64) (*entity.Reservation, error) {
	var out *entity.Reservation
	m.v.run(func() {
		if r, ok := m.v.s.reservations[id]; ok {
			out = &r
		}
	})
	return out, nil
}

func (m memReservations) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Reservation, error) {
	return m.FindByID(ctx, id)
}

func (m memReservations) filter(keep func(entity.Reservation) bool) []*entity.Reservation {
	var out []*entity.Reservation
	m.v.run(func() {
		for _, r := range m.v.s.reservations {
			if keep(r) {
				r := r
				out = append(out, &r)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m memReservations) FindByCustomerID(_ context.Context, userID int64, limit, offset int) ([]*entity.Reservation, error) {
	all := m.filter(func(r entity.Reservation) bool { return r.CustomerUserID == userID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m memReservations) CountByCustomerID(_ context.Context, userID int64) (int64, error) {
	return int64(len(m.filter(func(r entity.Reservation) bool { return r.CustomerUserID == userID }))), nil
}

func (m memReservations) FindByLocationID(_ context.Context, locationID int64) ([]*entity.Reservation, error) {
	return m.filter(func(r entity.Reservation) bool { return r.LocationID == locationID }), nil
}

func (m memReservations) FindConfirmedOverlapping(_ context.Context, locationID int64, start, end time.Time) ([]*entity.Reservation, error) {
	return m.filter(func(r entity.Reservation) bool {
		return r.LocationID == locationID &&
			r.Status == entity.ReservationStatusConfirmed &&
			r.StartTime.Before(end) && r.EndTime.After(start)
	}), nil
}

func (m memReservations) UpdateStatus(_ context.Context, id int64, from, to entity.ReservationStatus) (bool, error) {
	var ok bool
	var err error
	m.v.run(func() {
		if m.v.s.updateStatusErr != nil {
			err = m.v.s.updateStatusErr
			return
		}
		r, found := m.v.s.reservations[id]
		if !found || r.Status != from {
			return
		}
		r.Status = to
		m.v.s.reservations[id] = r
		ok = true
	})
	return ok, err
}

type memTransactions struct{ v *memView }

func (m memTransactions) Create(_ context.Context, t *entity.Transaction) error {
	m.v.run(func() {
		m.v.s.nextID++
		t.ID = m.v.s.nextID
		m.v.s.transactions[t.ID] = *t
	})
	return nil
}

func (m memTransactions) FindByID(_ context.Context, id int64) (*entity.Transaction, error) {
	var out *entity.Transaction
	m.v.run(func() {
		if t, ok := m.v.s.transactions[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (m memTransactions) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Transaction, error) {
	return m.FindByID(ctx, id)
}

func (m memTransactions) HasPaidForReservation(_ context.Context, reservationID int64) (bool, error) {
	var paid bool
	m.v.run(func() {
		for _, t := range m.v.s.transactions {
			if t.ReservationID == reservationID && t.Status == entity.TransactionStatusPaid {
				paid = true
			}
		}
	})
	return paid, nil
}

func (m memTransactions) MarkPaid(_ context.Context, id int64) (bool, error) {
	var ok bool
	m.v.run(func() {
		t, found := m.v.s.transactions[id]
		if !found || t.Status != entity.TransactionStatusInitiated {
			return
		}
		t.Status = entity.TransactionStatusPaid
		m.v.s.transactions[id] = t
		ok = true
	})
	return ok, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var testBase = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

func ts(t time.Time) string {
	return t.Format(time.RFC3339)
}

const (
	ownerID    int64 = 7
	adminID    int64 = 1
	customerA  int64 = 21
	customerB  int64 = 22
	locationID int64 = 5
)

func hourlyLocation(total, available int) entity.Location {
	return entity.Location{
		Base:                  entity.Base{ID: locationID},
		OwnerUserID:           ownerID,
		Name:                  "Central Lot",
		TotalSlots:            total,
		AvailableSlots:        available,
		PricingMode:           entity.PricingModeHourly,
		BasePricePerHourPaise: 1000,
		IsApproved:            true,
	}
}

type fixture struct {
	store     *memStore
	clock     *fixedClock
	publisher *recordingPublisher
	repo      *repository.Repository
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:     store,
		clock:     &fixedClock{now: testBase},
		publisher: &recordingPublisher{},
		repo:      store.repository(),
	}
}

func (f *fixture) reservations() ReservationService {
	return NewReservationService(f.repo, f.publisher, f.clock.Now, zap.NewNop())
}
