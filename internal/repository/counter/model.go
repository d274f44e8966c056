package repository

type counterEntity struct {
	Key           string `bson:"_id"`
	SequenceValue int64  `bson:"sequence_value"`
}
