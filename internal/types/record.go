package types

import (
	"maps"

	"github.com/tobsdb/tdblite/pkg"
)

// Record maps a column name to its stored value.
type Record = pkg.Map[string, Value]

func GetPrimaryKey(r Record) int {
	return r.Get(SYS_PRIMARY_KEY).Int()
}

func SetPrimaryKey(r Record, key int) {
	r.Set(SYS_PRIMARY_KEY, IntValue(key))
}

func CloneRecord(r Record) Record {
	return maps.Clone(r)
}
