package model

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesZeroFromAbsent(t *testing.T) {
	type doc struct {
		CO2 Optional[int] `json:"co2"`
	}

	zero, err := json.Marshal(doc{CO2: Present(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"co2":0}`, string(zero))

	absent, err := json.Marshal(doc{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"co2":null}`, string(absent))

	var back doc
	require.NoError(t, json.Unmarshal(zero, &back))
	v, ok := back.CO2.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	require.NoError(t, json.Unmarshal(absent, &back))
	assert.False(t, back.CO2.IsPresent())

	require.NoError(t, json.Unmarshal([]byte(`{}`), &back))
	assert.False(t, back.CO2.IsPresent())
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"basic", TierBasic, false},
		{"silver", TierSilver, false},
		{" Gold ", TierGold, false},
		{"diamond", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTier(tt.in)
			if tt.wantErr {
				var invalid *InvalidTierError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, tt.in, invalid.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierGold.AtLeast(TierSilver))
	assert.True(t, TierSilver.AtLeast(TierSilver))
	assert.False(t, TierBasic.AtLeast(TierSilver))
	assert.False(t, Tier("diamond").AtLeast(TierBasic))

	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		assert.Less(t, tiers[i-1].Rank(), tiers[i].Rank())
	}
}

func TestMonthsBetween(t *testing.T) {
	d := func(s string) Date {
		v, err := ParseDate(s)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, 0, MonthsBetween(d("2020-01-15"), d("2020-02-14")))
	assert.Equal(t, 1, MonthsBetween(d("2020-01-15"), d("2020-02-15")))
	assert.Equal(t, 26, MonthsBetween(d("2017-09-01"), d("2019-11-20")))
	assert.Equal(t, 0, MonthsBetween(d("2021-01-01"), d("2020-01-01")))
}

func TestParseDateMonthOnly(t *testing.T) {
	got, err := ParseDate("2017-09")
	require.NoError(t, err)
	assert.Equal(t, "2017-09-01", got.String())

	_, err = ParseDate("September 2017")
	assert.Error(t, err)
}

func TestComputeKeeperDurations(t *testing.T) {
	acquired1, _ := ParseDate("2017-09-01")
	disposed1, _ := ParseDate("2020-03-10")
	acquired2, _ := ParseDate("2020-03-10")

	periods := []KeeperPeriod{
		{Sequence: 1, Acquired: acquired1, Disposed: Present(disposed1)},
		{Sequence: 2, Acquired: acquired2},
	}
	ComputeKeeperDurations(periods, time.Date(2021, 3, 10, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, 30, periods[0].DurationMonths)
	assert.Equal(t, 12, periods[1].DurationMonths)
}

func TestCloneIsDeep(t *testing.T) {
	orig := &VehicleReport{
		Registration: "WA67YSB",
		MotHistory:   Present([]MotTest{{Advisories: []string{"tyre worn"}}}),
		KeeperHistory: Present([]KeeperPeriod{
			{Sequence: 1},
		}),
	}

	cp := orig.Clone()
	tests, _ := cp.MotHistory.Get()
	tests[0].Advisories[0] = "changed"
	keepers, _ := cp.KeeperHistory.Get()
	keepers[0].Sequence = 9

	origTests, _ := orig.MotHistory.Get()
	origKeepers, _ := orig.KeeperHistory.Get()
	assert.Equal(t, "tyre worn", origTests[0].Advisories[0])
	assert.Equal(t, 1, origKeepers[0].Sequence)
}

func TestResolutionError(t *testing.T) {
	cause := errors.New("fixture miss")
	err := NewNotFound(cause)

	assert.Equal(t, "NotFound: vehicle not found", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(cause))
	assert.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, KindNetworkFailure.HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, KindUnknownAPI.HTTPStatus())
}
