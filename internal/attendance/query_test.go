package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_OrderAndCounts(t *testing.T) {
	// Given: A in at 09:00 out at 17:00, C in at 08:00, B only a placeholder
	f := setup(t)
	ctx := context.Background()
	a := f.addMember(t, "Alma", model.RoleYouth)
	b := f.addMember(t, "Bert", model.RoleTanders)
	c := f.addMember(t, "Cruz", model.RoleYouth)

	f.clock.Set(time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC))
	_, err := f.service.CheckIn(ctx, c.ID, "", "")
	require.NoError(t, err)

	f.clock.Set(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC))
	_, err = f.service.CheckIn(ctx, a.ID, "", "")
	require.NoError(t, err)

	_, err = f.service.CheckOut(ctx, b.ID, "")
	require.NoError(t, err)

	f.clock.Set(time.Date(2025, time.June, 1, 17, 0, 0, 0, time.UTC))
	_, err = f.service.CheckOut(ctx, a.ID, "")
	require.NoError(t, err)

	// When
	rows, err := f.service.Today(ctx, "")
	require.NoError(t, err)

	// Then: login ascending, rows without login last
	require.Len(t, rows, 3)
	assert.Equal(t, c.ID, rows[0].MemberID)
	assert.Equal(t, a.ID, rows[1].MemberID)
	assert.Equal(t, b.ID, rows[2].MemberID)
	assert.Nil(t, rows[2].LoginAt)

	require.NotNil(t, rows[1].LoginAt)
	require.NotNil(t, rows[1].LogoutAt)
	assert.Equal(t, 9, rows[1].LoginAt.UTC().Hour())
	assert.Equal(t, 17, rows[1].LogoutAt.UTC().Hour())
	assert.Equal(t, "2025-06-01", rows[1].Day)
	assert.Equal(t, "Alma", rows[1].Name)

	// Then: role filter
	youth, err := f.service.Today(ctx, model.RoleYouth)
	require.NoError(t, err)
	assert.Len(t, youth, 2)

	// Then: one credit per day regardless of timestamps
	counts, err := f.service.Counts(ctx)
	require.NoError(t, err)
	credited := map[uint32]int64{}
	for _, cnt := range counts {
		credited[cnt.MemberID] = cnt.Total
	}
	assert.Equal(t, int64(1), credited[a.ID])
}

func TestCounts_OrderAndActiveOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	zed := f.addMember(t, "Zed", model.RoleYouth)
	amy := f.addMember(t, "Amy", model.RoleYouth)
	bob := f.addMember(t, "Bob", model.RoleYouth)
	gone := f.addMember(t, "Gone", model.RoleYouth)

	for _, d := range []string{"2025-05-30", "2025-05-31"} {
		_, err := f.service.CheckIn(ctx, zed.ID, d, "")
		require.NoError(t, err)
	}
	_, err := f.service.CheckIn(ctx, amy.ID, "2025-05-31", "")
	require.NoError(t, err)
	_, err = f.service.CheckIn(ctx, bob.ID, "2025-05-31", "")
	require.NoError(t, err)
	_, err = f.service.CheckIn(ctx, gone.ID, "2025-05-31", "")
	require.NoError(t, err)
	require.NoError(t, f.members.SetStatus(ctx, f.db, gone.ID, model.StatusInactive))
	nobody := f.addMember(t, "Nobody", model.RoleYouth)

	counts, err := f.service.Counts(ctx)
	require.NoError(t, err)

	require.Len(t, counts, 4)
	assert.Equal(t, model.AttendanceCount{MemberID: zed.ID, Name: "Zed", Total: 2}, counts[0])
	assert.Equal(t, "Amy", counts[1].Name)
	assert.Equal(t, "Bob", counts[2].Name)
	assert.Equal(t, model.AttendanceCount{MemberID: nobody.ID, Name: "Nobody", Total: 0}, counts[3])
}

func TestAbsentSince_CutoffInclusive(t *testing.T) {
	// Given: today is 2025-06-22, cutoff three weeks back is 2025-06-01
	f := setup(t)
	ctx := context.Background()
	f.clock.Set(time.Date(2025, time.June, 22, 10, 0, 0, 0, time.UTC))

	onCutoff := f.addMember(t, "Olive", model.RoleYouth)
	before := f.addMember(t, "Bianca", model.RoleYouth)
	never := f.addMember(t, "Nestor", model.RoleYouth)
	inactive := f.addMember(t, "Ines", model.RoleYouth)
	recent := f.addMember(t, "Rico", model.RoleYouth)

	_, err := f.service.CheckIn(ctx, onCutoff.ID, "2025-06-01", "")
	require.NoError(t, err)
	_, err = f.service.CheckIn(ctx, before.ID, "2025-05-31", "")
	require.NoError(t, err)
	_, err = f.service.CheckIn(ctx, recent.ID, "", "")
	require.NoError(t, err)
	require.NoError(t, f.members.SetStatus(ctx, f.db, inactive.ID, model.StatusInactive))

	// When
	absent, err := f.service.AbsentForWeeks(ctx, 3)
	require.NoError(t, err)
	direct, err := f.service.AbsentSince(ctx, "2025-06-01")
	require.NoError(t, err)

	// Then: ordered by name, cutoff day counts as present
	names := make([]string, len(absent))
	for i, m := range absent {
		names[i] = m.Name
	}
	assert.Equal(t, []string{before.Name, never.Name}, names)
	assert.Equal(t, absent, direct)

	_, err = f.service.AbsentSince(ctx, "bad")
	assert.ErrorIs(t, err, attendance.ErrInvalidDay)
}

func TestHistory_OrderFiltersAndDeactivation(t *testing.T) {
	// Given
	f := setup(t)
	ctx := context.Background()
	a := f.addMember(t, "Ana", model.RoleYouth)
	b := f.addMember(t, "Ben", model.RoleYouth)

	for _, d := range []string{"2025-05-29", "2025-05-31", "2025-05-30"} {
		_, err := f.service.CheckIn(ctx, a.ID, d, "")
		require.NoError(t, err)
	}
	_, err := f.service.CheckIn(ctx, b.ID, "2025-05-31", "")
	require.NoError(t, err)

	// When: Ana is deactivated
	require.NoError(t, f.members.SetStatus(ctx, f.db, a.ID, model.StatusInactive))

	all, err := f.service.History(ctx, attendance.HistoryFilter{})
	require.NoError(t, err)
	onlyA, err := f.service.History(ctx, attendance.HistoryFilter{MemberID: a.ID, Start: "2025-05-30", End: "2025-05-31"})
	require.NoError(t, err)

	// Then: day descending, history kept after deactivation
	require.Len(t, all, 4)
	assert.Equal(t, "2025-05-31", all[0].Day)
	assert.Equal(t, "2025-05-29", all[3].Day)

	require.Len(t, onlyA, 2)
	assert.Equal(t, "2025-05-31", onlyA[0].Day)
	assert.Equal(t, "2025-05-30", onlyA[1].Day)

	_, err = f.service.History(ctx, attendance.HistoryFilter{Start: "yesterday"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDay)
}
