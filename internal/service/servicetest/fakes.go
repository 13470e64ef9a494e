// Package servicetest holds in-memory repository fakes shared by service tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/correction"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/google/uuid"
)

// Transactor runs fn directly. Calls counts outermost transactions.
type Transactor struct {
	Calls int
}

type txMarker struct{}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}
	t.Calls++
	return fn(context.WithValue(ctx, txMarker{}, true))
}

type Users struct {
	mu   sync.Mutex
	byID map[string]user.User
	// FailUpdate makes UpdateSchedule and UpdateExtraInfo fail for these ids.
	FailUpdate map[string]error
}

func NewUsers(users ...user.User) *Users {
	r := &Users{byID: make(map[string]user.User), FailUpdate: make(map[string]error)}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		r.byID[u.ID] = u
	}
	return r
}

func (r *Users) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
		if u.EmployeeCode != "" && existing.EmployeeCode == u.EmployeeCode {
			return user.User{}, user.ErrEmployeeCodeExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	return u, nil
}

func (r *Users) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *Users) List(ctx context.Context, activeOnly bool) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]user.User, 0, len(r.byID))
	for _, u := range r.byID {
		if activeOnly && !u.IsActive {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *Users) Update(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return user.User{}, user.ErrUserNotFound
	}
	for id, existing := range r.byID {
		if id != u.ID && existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	u.UpdatedAt = time.Now()
	r.byID[u.ID] = u
	return u, nil
}

func (r *Users) UpdateSchedule(ctx context.Context, id string, schedule user.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.FailUpdate[id]; err != nil {
		return err
	}
	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Schedule = schedule
	r.byID[id] = u
	return nil
}

func (r *Users) UpdateExtraInfo(ctx context.Context, id string, info user.ExtraInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.FailUpdate[id]; err != nil {
		return err
	}
	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.ExtraInfo = append(user.ExtraInfo(nil), info...)
	r.byID[id] = u
	return nil
}

type History struct {
	mu      sync.Mutex
	Entries []user.History
}

func (r *History) Append(ctx context.Context, entries []user.History) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, entries...)
	return nil
}

func (r *History) ListByUser(ctx context.Context, userID string) ([]user.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.History, 0)
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].UserID == userID {
			out = append(out, r.Entries[i])
		}
	}
	return out, nil
}

func (r *History) ListAll(ctx context.Context) ([]user.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]user.History(nil), r.Entries...), nil
}

type Holidays struct {
	mu   sync.Mutex
	byID map[string]holiday.Holiday
}

func NewHolidays(holidays ...holiday.Holiday) *Holidays {
	r := &Holidays{byID: make(map[string]holiday.Holiday)}
	for _, h := range holidays {
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		r.byID[h.ID] = h
	}
	return r
}

func (r *Holidays) dateTaken(date, exceptID string) bool {
	for id, h := range r.byID {
		if id != exceptID && h.Date == date {
			return true
		}
	}
	return false
}

func (r *Holidays) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dateTaken(h.Date, "") {
		return holiday.Holiday{}, holiday.ErrHolidayExists
	}
	h.ID = uuid.NewString()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	r.byID[h.ID] = h
	return h, nil
}

func (r *Holidays) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	return h, nil
}

func (r *Holidays) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[h.ID]; !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	if r.dateTaken(h.Date, h.ID) {
		return holiday.Holiday{}, holiday.ErrHolidayExists
	}
	h.UpdatedAt = time.Now()
	r.byID[h.ID] = h
	return h, nil
}

func (r *Holidays) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Holidays) List(ctx context.Context, year string) ([]holiday.Holiday, error) {
	return r.filter(func(h holiday.Holiday) bool { return year == "" || h.Date[:4] == year }), nil
}

func (r *Holidays) ListBetween(ctx context.Context, from, to string) ([]holiday.Holiday, error) {
	return r.filter(func(h holiday.Holiday) bool { return h.Date >= from && h.Date <= to }), nil
}

func (r *Holidays) filter(keep func(holiday.Holiday) bool) []holiday.Holiday {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]holiday.Holiday, 0)
	for _, h := range r.byID {
		if keep(h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type Attendance struct {
	mu     sync.Mutex
	months map[string]attendance.MonthlyAttendance
	Writes int
}

func NewAttendance() *Attendance {
	return &Attendance{months: make(map[string]attendance.MonthlyAttendance)}
}

func monthKey(userID, monthYear string) string { return userID + "|" + monthYear }

func copyMonth(m attendance.MonthlyAttendance) attendance.MonthlyAttendance {
	days := make(map[string]attendance.DailyRecord, len(m.Days))
	for k, v := range m.Days {
		days[k] = v
	}
	m.Days = days
	return m
}

func (r *Attendance) GetMonth(ctx context.Context, userID, monthYear string) (attendance.MonthlyAttendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.months[monthKey(userID, monthYear)]
	if !ok {
		return attendance.MonthlyAttendance{}, attendance.ErrMonthNotFound
	}
	return copyMonth(m), nil
}

func (r *Attendance) UpsertMonth(ctx context.Context, m attendance.MonthlyAttendance) (attendance.MonthlyAttendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := monthKey(m.UserID, m.MonthYear)
	if existing, ok := r.months[key]; ok {
		m.ID = existing.ID
	} else {
		m.ID = uuid.NewString()
	}
	m.UpdatedAt = time.Now()
	r.months[key] = copyMonth(m)
	r.Writes++
	return copyMonth(m), nil
}

func (r *Attendance) ListByMonth(ctx context.Context, monthYear string) ([]attendance.MonthlyAttendance, error) {
	return r.filter(func(m attendance.MonthlyAttendance) bool { return m.MonthYear == monthYear }), nil
}

func (r *Attendance) ListByUser(ctx context.Context, userID string) ([]attendance.MonthlyAttendance, error) {
	return r.filter(func(m attendance.MonthlyAttendance) bool { return m.UserID == userID }), nil
}

func (r *Attendance) filter(keep func(attendance.MonthlyAttendance) bool) []attendance.MonthlyAttendance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]attendance.MonthlyAttendance, 0)
	for _, m := range r.months {
		if keep(m) {
			out = append(out, copyMonth(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return monthKey(out[i].UserID, out[i].MonthYear) < monthKey(out[j].UserID, out[j].MonthYear) })
	return out
}

type LeaveBalances struct {
	mu     sync.Mutex
	byUser map[string]leave.LeaveBalance
	// FailUpsert makes Upsert fail for these user ids.
	FailUpsert map[string]error
}

func NewLeaveBalances() *LeaveBalances {
	return &LeaveBalances{byUser: make(map[string]leave.LeaveBalance), FailUpsert: make(map[string]error)}
}

func (r *LeaveBalances) Get(ctx context.Context, userID string) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byUser[userID]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *LeaveBalances) Upsert(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.FailUpsert[b.UserID]; err != nil {
		return leave.LeaveBalance{}, err
	}
	b.UpdatedAt = time.Now()
	r.byUser[b.UserID] = b
	return b, nil
}

func (r *LeaveBalances) List(ctx context.Context) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.LeaveBalance, 0, len(r.byUser))
	for _, b := range r.byUser {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type LeaveAccruals struct {
	mu   sync.Mutex
	seen map[string]leave.LeaveAccrual
}

func NewLeaveAccruals() *LeaveAccruals {
	return &LeaveAccruals{seen: make(map[string]leave.LeaveAccrual)}
}

func (r *LeaveAccruals) Create(ctx context.Context, a leave.LeaveAccrual) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := monthKey(a.UserID, a.MonthYear)
	if _, ok := r.seen[key]; ok {
		return false, nil
	}
	r.seen[key] = a
	return true, nil
}

// Remove undoes an accrual, standing in for a rolled back transaction.
func (r *LeaveAccruals) Remove(userID, monthYear string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, monthKey(userID, monthYear))
}

type LeaveUsages struct {
	mu    sync.Mutex
	byDay map[string]leave.LeaveUsage
}

func NewLeaveUsages() *LeaveUsages {
	return &LeaveUsages{byDay: make(map[string]leave.LeaveUsage)}
}

func (r *LeaveUsages) Get(ctx context.Context, userID, date string) (leave.LeaveUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byDay[monthKey(userID, date)]
	if !ok {
		return leave.LeaveUsage{}, leave.ErrUsageNotFound
	}
	return u, nil
}

func (r *LeaveUsages) Upsert(ctx context.Context, u leave.LeaveUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDay[monthKey(u.UserID, u.Date)] = u
	return nil
}

func (r *LeaveUsages) Delete(ctx context.Context, userID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := monthKey(userID, date)
	if _, ok := r.byDay[key]; !ok {
		return leave.ErrUsageNotFound
	}
	delete(r.byDay, key)
	return nil
}

func (r *LeaveUsages) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byDay)
}

type Corrections struct {
	mu    sync.Mutex
	byID  map[string]correction.CorrectionRequest
	users *Users
}

func NewCorrections(users *Users) *Corrections {
	return &Corrections{byID: make(map[string]correction.CorrectionRequest), users: users}
}

func (r *Corrections) Create(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.Status = correction.StatusPending
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	if r.users != nil {
		if u, err := r.users.GetByID(ctx, c.UserID); err == nil {
			c.UserName = u.Name
		}
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *Corrections) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
	}
	return c, nil
}

func (r *Corrections) List(ctx context.Context, filter correction.ListFilter) ([]correction.CorrectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]correction.CorrectionRequest, 0)
	for _, c := range r.byID {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && c.UserID != filter.UserID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Corrections) Resolve(ctx context.Context, res correction.Resolution) (correction.CorrectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[res.ID]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
	}
	if c.Status != correction.StatusPending {
		return correction.CorrectionRequest{}, correction.ErrCorrectionAlreadyResolved
	}
	resolvedAt := res.ResolvedAt
	c.Status = res.Status
	c.ResolvedBy = res.ResolvedBy
	c.ResolvedAt = &resolvedAt
	c.RejectionReason = res.RejectionReason
	c.UpdatedAt = resolvedAt
	r.byID[c.ID] = c
	return c, nil
}

// Mailer records every email instead of sending it.
type Mailer struct {
	mu          sync.Mutex
	LoginCodes  []string
	Requests    []SentRequest
	Resolutions []SentResolution
	Err         error
}

type SentRequest struct {
	To   string
	Data email.CorrectionRequestEmail
}

type SentResolution struct {
	To   string
	Data email.CorrectionResolvedEmail
}

func (m *Mailer) SendLoginCode(to, code, expiresAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCodes = append(m.LoginCodes, code)
	return m.Err
}

func (m *Mailer) SendCorrectionRequest(to string, data email.CorrectionRequestEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, SentRequest{To: to, Data: data})
	return m.Err
}

func (m *Mailer) SendCorrectionResolved(to string, data email.CorrectionResolvedEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resolutions = append(m.Resolutions, SentResolution{To: to, Data: data})
	return m.Err
}
