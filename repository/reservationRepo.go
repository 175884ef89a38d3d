package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"booking-service/data"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ReservationRepo encapsulates the Cassandra client for the
// reservation ledger.
type ReservationRepo struct {
	session *gocql.Session
	logger  *logrus.Logger
	tracer  trace.Tracer
}

// New reads the db configuration from the environment and creates the
// booking keyspace if it does not exist yet.
func New(logger *logrus.Logger, tracer trace.Tracer) (*ReservationRepo, error) {
	db := os.Getenv("CASS_DB")

	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "repository/reservation"}).Error(err)
		return nil, err
	}
	err = session.Query(
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
					WITH replication = {
						'class' : 'SimpleStrategy',
						'replication_factor' : %d
					}`, "booking", 1)).Exec()
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "repository/reservation"}).Error(err)
	}
	session.Close()

	cluster.Keyspace = "booking"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "repository/reservation"}).Error(err)
		return nil, err
	}

	return &ReservationRepo{
		session: session,
		logger:  logger,
		tracer:  tracer,
	}, nil
}

func (rr *ReservationRepo) CloseSession() {
	rr.session.Close()
}

// CreateTable creates the reservations_by_property table. Check-in is
// the clustering key so a property's reservations come back in date
// order.
func (rr *ReservationRepo) CreateTable() {
	err := rr.session.Query(
		`CREATE TABLE IF NOT EXISTS reservations_by_property (
        property_id text,
        reservation_id text,
        check_in timestamp,
        check_out timestamp,
        guest_count int,
        status text,
        PRIMARY KEY (property_id, check_in)
    ) WITH CLUSTERING ORDER BY (check_in ASC);`,
	).Exec()

	if err != nil {
		rr.logger.WithFields(logrus.Fields{"path": "repository/reservation"}).Error(err)
	}
}

func (rr *ReservationRepo) GetByProperty(ctx context.Context, propertyID string) (data.Reservations, error) {
	_, span := rr.tracer.Start(ctx, "ReservationRepo.GetByProperty")
	defer span.End()

	scanner := rr.session.Query(
		`SELECT reservation_id, property_id, check_in, check_out, guest_count, status
         FROM reservations_by_property WHERE property_id = ?`,
		propertyID).Iter().Scanner()

	var reservations data.Reservations
	for scanner.Next() {
		var rsv data.Reservation
		var checkIn, checkOut time.Time
		var status string
		err := scanner.Scan(&rsv.ID, &rsv.PropertyID, &checkIn, &checkOut, &rsv.GuestCount, &status)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			rr.logger.WithFields(logrus.Fields{"path": "repository/reservation"}).Error(err)
			return nil, err
		}
		rsv.CheckIn = data.DateOf(checkIn)
		rsv.CheckOut = data.DateOf(checkOut)
		rsv.Status = data.ReservationStatus(status)
		reservations = append(reservations, &rsv)
	}
	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		rr.logger.WithFields(logrus.Fields{"path": "repository/reservation"}).Error(err)
		return nil, err
	}
	return reservations, nil
}

func (rr *ReservationRepo) Insert(ctx context.Context, reservation *data.Reservation) error {
	_, span := rr.tracer.Start(ctx, "ReservationRepo.Insert")
	defer span.End()

	err := rr.session.Query(
		`INSERT INTO reservations_by_property
         (property_id, reservation_id, check_in, check_out, guest_count, status)
         VALUES (?, ?, ?, ?, ?, ?)`,
		reservation.PropertyID,
		reservation.ID,
		reservation.CheckIn.Time(),
		reservation.CheckOut.Time(),
		reservation.GuestCount,
		string(reservation.Status),
	).Exec()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		rr.logger.WithFields(logrus.Fields{"path": "repository/reservation"}).Error(err)
		return err
	}
	return nil
}
