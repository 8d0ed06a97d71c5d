// Package dataset declares the NYC yellow-taxi trip record dataset:
// the release URL layout and the fixed column schema.
package dataset

import (
	"fmt"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// DefaultURLPrefix is the release location of the DataTalksClub mirror of
// the NYC TLC yellow-taxi trip records.
const DefaultURLPrefix = "https://github.com/DataTalksClub/nyc-tlc-data/releases/download/yellow/"

// Timestamp columns of the yellow-taxi schema. These are parsed as
// timestamps regardless of their on-disk textual representation.
const (
	PickupColumn  = "tpep_pickup_datetime"
	DropoffColumn = "tpep_dropoff_datetime"
)

// FileURL builds the release URL for a given year and month, e.g.
// <prefix>yellow_tripdata_2021-01.csv.gz
func FileURL(prefix string, year, month int) (string, error) {
	if prefix == "" {
		prefix = DefaultURLPrefix
	}
	if year < 2009 || year > 2100 {
		return "", fmt.Errorf("dataset year %d out of range: %w", year, tripload.ErrInvalidConfig)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("dataset month %d out of range: %w", month, tripload.ErrInvalidConfig)
	}
	return fmt.Sprintf("%syellow_tripdata_%d-%02d.csv.gz", prefix, year, month), nil
}

// YellowTaxiSchema returns the fixed column schema of the yellow-taxi
// trip records. The schema is declared statically, not inferred from a
// sample read; every batch the source reader produces conforms to it.
func YellowTaxiSchema() tripload.Schema {
	return tripload.Schema{
		{Name: "VendorID", Type: tripload.TypeInt64},
		{Name: PickupColumn, Type: tripload.TypeTimestamp},
		{Name: DropoffColumn, Type: tripload.TypeTimestamp},
		{Name: "passenger_count", Type: tripload.TypeInt64},
		{Name: "trip_distance", Type: tripload.TypeFloat64},
		{Name: "RatecodeID", Type: tripload.TypeInt64},
		{Name: "store_and_fwd_flag", Type: tripload.TypeText},
		{Name: "PULocationID", Type: tripload.TypeInt64},
		{Name: "DOLocationID", Type: tripload.TypeInt64},
		{Name: "payment_type", Type: tripload.TypeInt64},
		{Name: "fare_amount", Type: tripload.TypeFloat64},
		{Name: "extra", Type: tripload.TypeFloat64},
		{Name: "mta_tax", Type: tripload.TypeFloat64},
		{Name: "tip_amount", Type: tripload.TypeFloat64},
		{Name: "tolls_amount", Type: tripload.TypeFloat64},
		{Name: "improvement_surcharge", Type: tripload.TypeFloat64},
		{Name: "total_amount", Type: tripload.TypeFloat64},
		{Name: "congestion_surcharge", Type: tripload.TypeFloat64},
	}
}
