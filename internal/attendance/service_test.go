package attendance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/member"
	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var day1 = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	clock   *testutil.FakeClock
	service *attendance.AttendanceService
	members *member.MemberRepository
	records *attendance.AttendanceRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clk := testutil.NewFakeClock(day1)
	members := member.NewMemberRepository()
	records := attendance.NewAttendanceRepository()
	svc := attendance.NewAttendanceService(db, records, members, clk, model.EventGeneral, metrics.New())

	return &fixture{db: db, clock: clk, service: svc, members: members, records: records}
}

func (f *fixture) addMember(t *testing.T, name string, role model.Role) *model.Member {
	t.Helper()

	m := model.NewMember(name, name+"@example.com", "", "", role)
	require.NoError(t, f.members.Create(context.Background(), f.db, m))
	return m
}

func (f *fixture) rowCount(t *testing.T, memberID uint32) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(&model.Attendance{}).Where("member_id = ?", memberID).Count(&n).Error)
	return n
}

func TestCheckIn_TwiceReportsAlreadyLoggedIn(t *testing.T) {
	// Given
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Ana", model.RoleYouth)

	// When
	first, err := f.service.CheckIn(ctx, m.ID, "", "")
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.service.CheckIn(ctx, m.ID, "", "")
	require.NoError(t, err)

	// Then: one advance, login time of the first call kept
	assert.Equal(t, attendance.Recorded, first)
	assert.Equal(t, attendance.AlreadyLoggedIn, second)
	assert.Equal(t, int64(1), f.rowCount(t, m.ID))

	row, err := f.records.FindByKey(ctx, f.db, m.ID, "2025-06-01")
	require.NoError(t, err)
	require.NotNil(t, row.LoginAt)
	assert.True(t, row.LoginAt.Equal(day1))
	assert.Nil(t, row.LogoutAt)
	assert.Equal(t, model.EventGeneral, row.Event)
}

func TestCheckOut_BeforeCheckIn(t *testing.T) {
	// Given
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Ben", model.RoleTanders)

	// When
	outcome, err := f.service.CheckOut(ctx, m.ID, "")

	// Then: rejected, no timestamps written
	require.NoError(t, err)
	assert.Equal(t, attendance.LoginRequiredFirst, outcome)

	row, err := f.records.FindByKey(ctx, f.db, m.ID, "2025-06-01")
	require.NoError(t, err)
	assert.Nil(t, row.LoginAt)
	assert.Nil(t, row.LogoutAt)
}

func TestCheckInThenCheckOut(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Cara", model.RoleYoungPro)

	in, err := f.service.CheckIn(ctx, m.ID, "", model.EventSundayService)
	require.NoError(t, err)
	f.clock.Advance(8 * time.Hour)
	out, err := f.service.CheckOut(ctx, m.ID, "")
	require.NoError(t, err)
	again, err := f.service.CheckOut(ctx, m.ID, "")
	require.NoError(t, err)
	late, err := f.service.CheckIn(ctx, m.ID, "", "")
	require.NoError(t, err)

	assert.Equal(t, attendance.Recorded, in)
	assert.Equal(t, attendance.Recorded, out)
	assert.Equal(t, attendance.AlreadyLoggedOut, again)
	assert.Equal(t, attendance.AlreadyLoggedIn, late)

	state, err := f.service.State(ctx, m.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.StateLoggedOut, state)

	row, err := f.records.FindByKey(ctx, f.db, m.ID, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, model.EventSundayService, row.Event)
}

func TestAutoToggle_Sequence(t *testing.T) {
	// Given
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Dan", model.RoleYouth)

	// When
	var got []attendance.Outcome
	for i := 0; i < 3; i++ {
		o, err := f.service.AutoToggle(ctx, m.ID, "", "")
		require.NoError(t, err)
		got = append(got, o)
		f.clock.Advance(time.Hour)
	}

	// Then
	assert.Equal(t, []attendance.Outcome{
		attendance.LoggedIn,
		attendance.LoggedOut,
		attendance.AlreadyCompleted,
	}, got)
	assert.Equal(t, int64(1), f.rowCount(t, m.ID))
}

func TestAutoToggle_ConcurrentSameKey(t *testing.T) {
	// Given
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Eve", model.RoleYouth)

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[attendance.Outcome]int{}
		errs     []error
	)

	// When: every caller races to create and advance the same row
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			o, err := f.service.AutoToggle(ctx, m.ID, "", "")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			outcomes[o]++
		}()
	}
	close(start)
	wg.Wait()

	// Then: one row, exactly one login and one logout
	require.Empty(t, errs)
	assert.Equal(t, int64(1), f.rowCount(t, m.ID))
	assert.Equal(t, 1, outcomes[attendance.LoggedIn])
	assert.Equal(t, 1, outcomes[attendance.LoggedOut])
	assert.Equal(t, callers-2, outcomes[attendance.AlreadyCompleted])
}

func TestCheckIn_ConcurrentSameKey(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Fay", model.RoleYouth)

	const callers = 6
	results := make(chan attendance.Outcome, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := f.service.CheckIn(ctx, m.ID, "", "")
			assert.NoError(t, err)
			results <- o
		}()
	}
	wg.Wait()
	close(results)

	recorded := 0
	for o := range results {
		if o == attendance.Recorded {
			recorded++
		} else {
			assert.Equal(t, attendance.AlreadyLoggedIn, o)
		}
	}
	assert.Equal(t, 1, recorded)
	assert.Equal(t, int64(1), f.rowCount(t, m.ID))
}

func TestAutoToggle_DifferentMembersIndependent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var ids []uint32
	for _, name := range []string{"Gio", "Hana", "Ian", "Joy"} {
		ids = append(ids, f.addMember(t, name, model.RoleYouth).ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			o, err := f.service.AutoToggle(ctx, id, "", "")
			assert.NoError(t, err)
			assert.Equal(t, attendance.LoggedIn, o)
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, int64(1), f.rowCount(t, id))
	}
}

func TestTransition_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Kim", model.RoleYouth)

	_, err := f.service.AutoToggle(ctx, 9999, "", "")
	assert.ErrorIs(t, err, member.ErrMemberNotFound)

	_, err = f.service.CheckIn(ctx, m.ID, "06/01/2025", "")
	assert.ErrorIs(t, err, attendance.ErrInvalidDay)

	assert.Equal(t, int64(0), f.rowCount(t, m.ID))
}

func TestExplicitDayIsSeparateKey(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m := f.addMember(t, "Lea", model.RoleYouth)

	o, err := f.service.AutoToggle(ctx, m.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, attendance.LoggedIn, o)

	o, err = f.service.AutoToggle(ctx, m.ID, "2025-05-31", "")
	require.NoError(t, err)
	assert.Equal(t, attendance.LoggedIn, o)

	assert.Equal(t, int64(2), f.rowCount(t, m.ID))
}
