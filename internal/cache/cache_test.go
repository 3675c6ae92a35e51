package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestSetResetsExpiry(t *testing.T) {
	c := New(50 * time.Millisecond)

	c.Set("key", 1)
	time.Sleep(30 * time.Millisecond)
	c.Set("key", 2)
	time.Sleep(30 * time.Millisecond)

	got, ok := c.Get("key")
	assert.True(t, ok, "second Set should have reset the expiry")
	assert.Equal(t, 2, got)
}

func TestExpiredEntryEvicted(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("key", "value")
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)

	c.mu.Lock()
	_, stillStored := c.entries["key"]
	c.mu.Unlock()
	assert.False(t, stillStored, "expired entry should be removed on Get")
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
}
