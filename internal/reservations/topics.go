package reservations

const (
	TopicCreated   = "reservation.created"
	TopicCancelled = "reservation.cancelled"
)

// Partition key = reservation id, supaya event satu reservasi urut.
func PartitionKey(reservationID string) []byte { return []byte(reservationID) }
