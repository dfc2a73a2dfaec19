package vehicle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	eventBucketName = "events"
	imageBucketName = "images"
)

// DB defines the interface for database operations
type DB interface {
	// SaveEvent saves a timeline event
	SaveEvent(event *RawEvent) error

	// GetEvent retrieves an event by vehicle and ID
	GetEvent(vehicleID, id string) (*RawEvent, error)

	// ListEvents returns all events for a vehicle
	ListEvents(vehicleID string) ([]*RawEvent, error)

	// DeleteEvent removes an event
	DeleteEvent(vehicleID, id string) error

	// SaveImage saves an uploaded image record
	SaveImage(image *LinkedImage) error

	// GetImage retrieves an image by vehicle and ID
	GetImage(vehicleID, id string) (*LinkedImage, error)

	// ListImages returns all images for a vehicle
	ListImages(vehicleID string) ([]*LinkedImage, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(eventBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(imageBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// recordKey scopes a record to its vehicle so per-vehicle listing is a
// prefix scan.
func recordKey(vehicleID, id string) []byte {
	return []byte(vehicleID + "/" + id)
}

// SaveEvent saves a timeline event
func (b *BoltDB) SaveEvent(event *RawEvent) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventBucketName))
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshaling event: %w", err)
		}
		return bucket.Put(recordKey(event.VehicleID, event.ID), data)
	})
}

// GetEvent retrieves an event by vehicle and ID
func (b *BoltDB) GetEvent(vehicleID, id string) (*RawEvent, error) {
	var event *RawEvent
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventBucketName))
		data := bucket.Get(recordKey(vehicleID, id))
		if data == nil {
			return fmt.Errorf("event not found: %s", id)
		}
		return json.Unmarshal(data, &event)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns all events for a vehicle
func (b *BoltDB) ListEvents(vehicleID string) ([]*RawEvent, error) {
	events := make([]*RawEvent, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventBucketName))
		c := bucket.Cursor()
		prefix := []byte(vehicleID + "/")
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var event RawEvent
			if err := json.Unmarshal(v, &event); err != nil {
				return fmt.Errorf("unmarshaling event: %w", err)
			}
			events = append(events, &event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent removes an event
func (b *BoltDB) DeleteEvent(vehicleID, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(eventBucketName))
		return bucket.Delete(recordKey(vehicleID, id))
	})
}

// SaveImage saves an uploaded image record
func (b *BoltDB) SaveImage(image *LinkedImage) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(imageBucketName))
		data, err := json.Marshal(image)
		if err != nil {
			return fmt.Errorf("marshaling image: %w", err)
		}
		return bucket.Put(recordKey(image.VehicleID, image.ID), data)
	})
}

// GetImage retrieves an image by vehicle and ID
func (b *BoltDB) GetImage(vehicleID, id string) (*LinkedImage, error) {
	var image *LinkedImage
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(imageBucketName))
		data := bucket.Get(recordKey(vehicleID, id))
		if data == nil {
			return fmt.Errorf("image not found: %s", id)
		}
		return json.Unmarshal(data, &image)
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

// ListImages returns all images for a vehicle
func (b *BoltDB) ListImages(vehicleID string) ([]*LinkedImage, error) {
	images := make([]*LinkedImage, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(imageBucketName))
		c := bucket.Cursor()
		prefix := []byte(vehicleID + "/")
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var image LinkedImage
			if err := json.Unmarshal(v, &image); err != nil {
				return fmt.Errorf("unmarshaling image: %w", err)
			}
			images = append(images, &image)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
