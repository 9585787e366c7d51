package model

type LastProcessedBlock struct {
	Height uint64 `bson:"height"`
}
