package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session.
func (r *CacheKeyStruct) StudentSessionKey(studentID string) string {
	return fmt.Sprintf("login:student:%s", studentID)
}

// AdvisorSessionKey returns the cache key for an advisor's login session.
func (r *CacheKeyStruct) AdvisorSessionKey(advisorID string) string {
	return fmt.Sprintf("login:advisor:%s", advisorID)
}

// PlanProgressKey returns the cache key for a plan's computed progress summary.
func (r *CacheKeyStruct) PlanProgressKey(planID string) string {
	return fmt.Sprintf("plan:%s:progress", planID)
}

// PlanAuditChannel returns the Redis PubSub channel for a plan's audit events.
func (r *CacheKeyStruct) PlanAuditChannel(planID string) string {
	return fmt.Sprintf("plan:%s:audit", planID)
}

var CacheKey = NewCacheKeyStruct()
