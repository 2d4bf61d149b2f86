package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/craftfolio/studio_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// read-mostly lookup models are cached with a TTL; everything else is
// cached unbounded and invalidated on write.
func typeHasExpiration(typeName string) bool {
	expirableTypes := map[string]bool{
		"MeetingType":      true,
		"ScheduleSettings": true,
		"ContractTemplate": true,
	}
	return expirableTypes[typeName]
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// retrieve instance; returns nil without error on cache miss
func RetrieveRedis[T any](id int) (*T, error) {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	var obj T
	found, err := config.GetRedisObject(key, &obj)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &obj, nil
}

// keyed variants cache lookup paths that are not id-addressed, e.g. the
// public booking slug. T names the cache bucket and its TTL policy; the
// stored value may be a wrapper around T.
func StoreRedisKeyed[T any](obj any, lookup string) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + lookup

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// retrieve a keyed entry into dest; reports false without error on a miss
func RetrieveRedisKeyed[T any](lookup string, dest any) (bool, error) {
	key := GetTypeName[T]() + ":" + lookup
	return config.GetRedisObject(key, dest)
}

func InvalidateRedisKeyed[T any](lookup string) error {
	return config.RemoveRedisKey(GetTypeName[T]() + ":" + lookup)
}

// store list per account
func StoreRedisList[T any](obj any, accountId string) error {
	typeName := GetTypeName[T]()
	key := typeName + "List:" + accountId

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// retrieve list per account; returns nil without error on cache miss
func RetrieveRedisList[T any](accountId string) ([]*T, error) {
	key := GetTypeName[T]() + "List:" + accountId
	var list []*T
	found, err := config.GetRedisObject(key, &list)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return list, nil
}

// drop both the instance key and the account's list key after a write
func InvalidateRedis[T any](id int, accountId string) error {
	typeName := GetTypeName[T]()
	return config.RemoveRedisKey(
		typeName+":"+fmt.Sprint(id),
		typeName+"List:"+accountId,
	)
}
