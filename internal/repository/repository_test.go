package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hoocms/customers/internal/model"
	"github.com/labstack/gommon/log"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectionTimeout = 3 * time.Second
)

const (
	mongoContainerName = "mongo-test-customers"
	mongoPort          = "27017"
	mongoTestUser      = "test"
	mongoTestPassword  = "test"
	mongoTestDB        = "customers"
	mongoTestColl      = "customers"
)

var mongoClient *mongo.Client

func TestMain(m *testing.M) {
	// build docker pool
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("failed to create pool - %v", err)
	}

	if err := dockerPool.Client.Ping(); err != nil {
		log.Fatalf("failed to connect to docker - %v", err)
	}

	// start mongo
	mongodb, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       mongoContainerName,
		Repository: "mongo",
		Tag:        "latest",
		Env: []string{
			fmt.Sprintf("MONGO_INITDB_ROOT_USERNAME=%s", mongoTestUser),
			fmt.Sprintf("MONGO_INITDB_ROOT_PASSWORD=%s", mongoTestPassword),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"27017/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", mongoPort)}},
		},
	})
	if err != nil {
		log.Fatalf("failed to start mongodb - %v", err)
	}

	// connect to mongo
	mongoURI := fmt.Sprintf("mongodb://%s:%s@localhost:%s/?maxPoolSize=100", mongoTestUser, mongoTestPassword, mongoPort)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return err
		}
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		log.Fatalf("failed to establish connection to mongodb - %v", err)
	}

	// create unique secondary index on email
	{
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		customers := mongoClient.Database(mongoTestDB).Collection(mongoTestColl)
		_, err = customers.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email-index").SetUnique(true),
		})
		cancel()
		if err != nil {
			log.Fatalf("failed to create email index - %v", err)
		}
	}

	code := m.Run()

	// purge mongodb
	if err := dockerPool.Purge(mongodb); err != nil {
		log.Fatalf("failed to purge mongodb - %v", err)
	}

	os.Exit(code)
}

func TestMongoCustomerRps(t *testing.T) {
	customerRps := NewMongoCustomerRepository(mongoClient, mongoTestDB, mongoTestColl)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	registered := time.Date(2023, time.March, 14, 10, 30, 0, 0, time.UTC)

	customers := []*model.Customer{
		{
			ID:               "53b9062b-0f45-4671-8c01-52fce0d8c750",
			Name:             "John Norman",
			Email:            "johnnorman@somemal.com",
			Phone:            "+1-202-555-0101",
			Address:          "1 First Street",
			RegistrationDate: registered,
			CreatedAt:        registered,
			UpdatedAt:        registered,
		},
		{
			ID:               "48fa2e4f-7937-4257-ac61-a42ef9f45f69",
			Name:             "Albert Peers",
			Email:            "albertpeers@somemal.com",
			RegistrationDate: registered,
			CreatedAt:        registered,
			UpdatedAt:        registered,
		},
		{
			ID:               "3b9974de-ed71-4a5d-9121-42213e526234",
			Name:             "Andrew Wallet",
			Email:            "andrewallet@somemal.com",
			RegistrationDate: registered,
			CreatedAt:        registered,
			UpdatedAt:        registered,
		},
	}

	customerJohn := customers[0]

	t.Logf("create %d customers", len(customers))
	{
		for _, c := range customers {
			err := customerRps.Create(ctx, c)
			require.NoError(t, err, "failed to create customer")
		}
	}

	t.Log("create customer with duplicate email is rejected by unique index")
	{
		err := customerRps.Create(ctx, &model.Customer{
			ID:               "f917ab49-55f3-4b92-8abd-1f1124630cd9",
			Name:             "John Impostor",
			Email:            customerJohn.Email,
			RegistrationDate: registered,
			CreatedAt:        registered,
			UpdatedAt:        registered,
		})
		require.ErrorIs(t, err, ErrUniqueViolation, "duplicate email must violate unique index")
	}

	t.Logf("verify %d customers in single page", len(customers))
	{
		page, err := customerRps.FindPage(ctx, 50)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, page, len(customers), "%d customers were created, but got %d", len(customers), len(page))
	}

	t.Log("verify page is bounded by limit")
	{
		page, err := customerRps.FindPage(ctx, 2)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, page, 2, "page must contain at most limit entries")
	}

	t.Logf("find customer by id %s", customerJohn.ID)
	{
		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer")
		require.NotNil(t, dbCustomer, "customer was created, but not found in database")
		require.Equal(t, customerJohn.Email, dbCustomer.Email)
	}

	t.Logf("find customer by email %s", customerJohn.Email)
	{
		dbCustomer, err := customerRps.FindByEmail(ctx, customerJohn.Email)
		require.NoError(t, err, "failed to read customer by email")
		require.NotNil(t, dbCustomer, "customer was created, but not found via email index")
		require.Equal(t, customerJohn.ID, dbCustomer.ID)
	}

	t.Log("find by unknown email yields no customer and no error")
	{
		dbCustomer, err := customerRps.FindByEmail(ctx, "nobody@somemal.com")
		require.NoError(t, err, "failed to read customer by email")
		require.Nil(t, dbCustomer, "no customer holds this email")
	}

	t.Logf("replace customer %s", customerJohn.ID)
	{
		updated := *customerJohn
		updated.Email = "newjohn@somemail.com"
		updated.Phone = "+1-202-555-0199"
		updated.UpdatedAt = registered.Add(time.Hour)

		err := customerRps.Replace(ctx, &updated)
		require.NoError(t, err, "failed to replace customer")

		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer")
		require.NotNil(t, dbCustomer, "customer must still be present")
		require.Equal(t, updated.Email, dbCustomer.Email, "email must be replaced")
		require.Equal(t, updated.Phone, dbCustomer.Phone, "phone must be replaced")
		require.True(t, dbCustomer.UpdatedAt.After(customerJohn.CreatedAt), "updated_at must be refreshed")
	}

	t.Log("replace with email of another customer is rejected by unique index")
	{
		updated := *customerJohn
		updated.Email = customers[1].Email

		err := customerRps.Replace(ctx, &updated)
		require.ErrorIs(t, err, ErrUniqueViolation, "duplicate email must violate unique index")
	}

	t.Logf("delete customer by id %s", customerJohn.ID)
	{
		err := customerRps.DeleteByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to delete customer")
	}

	t.Logf("verify customer %s is deleted", customerJohn.ID)
	{
		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer by id")
		require.Nil(t, dbCustomer, "customer was deleted, but still present in database")
	}

	t.Logf("verify %d entries left", len(customers)-1)
	{
		page, err := customerRps.FindPage(ctx, 50)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, page, len(customers)-1, "one customer was deleted")
	}
}
