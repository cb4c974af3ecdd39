package core

import (
	"testing"
	"time"
)

func TestStatsCache(t *testing.T) {
	c := newStatsCache(4, time.Minute)

	if _, ok := c.get(statsKey); ok {
		t.Fatal("empty cache should miss")
	}

	st := &Statistics{TotalRecords: 12}
	c.set(statsKey, st)
	v, ok := c.get(statsKey)
	if !ok || v.(*Statistics).TotalRecords != 12 {
		t.Fatalf("get after set = %v, %v", v, ok)
	}

	c.purge()
	if _, ok := c.get(statsKey); ok {
		t.Error("purge should drop cached statistics")
	}
}

func TestStatsCache_Disabled(t *testing.T) {
	c := newStatsCache(4, 0)
	c.set(capacityKey, &CapacityStatistics{})
	if _, ok := c.get(capacityKey); ok {
		t.Error("disabled cache should never hit")
	}
	c.purge()
}
