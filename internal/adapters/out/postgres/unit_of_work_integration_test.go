package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgres_adapter "bitversity/internal/adapters/out/postgres"
	"bitversity/internal/core/domain/model/admin"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite runs the GORM adapters against a real
// PostgreSQL container.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	reads     *postgres_adapter.ReadModel
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
	suite.reads = postgres_adapter.NewReadModel(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, workflow_rules, workflow_rule_executions, " +
		"workflow_action_failures, notifications, tasks, admins").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(priority kernel.Priority, createdAt time.Time) *order.Order {
	budget, err := kernel.MoneyFromString("1500.50")
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID:  kernel.NewUUID(),
		Type:        order.TypeProject,
		Title:       "Landing page",
		Description: "Marketing site",
		Budget:      &budget,
		Priority:    priority,
	}, createdAt)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx), "commit without begin")
	suite.Require().Error(uow.Rollback(ctx), "rollback without begin")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_RoundTrip() {
	ctx := context.Background()
	o := suite.newOrder(kernel.PriorityHigh, testNow)

	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)

	want, got := o.Snapshot(), loaded.Snapshot()
	suite.Equal(want.ID, got.ID)
	suite.Equal(want.Status, got.Status)
	suite.Equal(want.Priority, got.Priority)
	suite.Equal(1, got.Version)
	suite.Require().NotNil(got.Budget)
	suite.True(want.Budget.Amount().Equal(got.Budget.Amount()))
	suite.WithinDuration(want.CreatedAt, got.CreatedAt, time.Microsecond)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_UpdateConfirmsVersionOnCommit() {
	ctx := context.Background()
	o := suite.newOrder(kernel.PriorityMedium, testNow)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	locked, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(locked.Transition(order.UnderReview, "", "", nil, testNow.Add(time.Minute)))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, locked))
	suite.Equal(1, locked.Version(), "version advances only after commit")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Equal(2, locked.Version())

	stored, err := suite.reads.FindOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.UnderReview, stored.Status)
	suite.Equal(2, stored.Version)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_StaleVersionIsRejected() {
	ctx := context.Background()
	o := suite.newOrder(kernel.PriorityMedium, testNow)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	first, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Transition(order.UnderReview, "", "", nil, testNow))
	suite.Require().NoError(suite.factory.Create().OrderRepository().Update(ctx, first))

	suite.Require().NoError(second.Transition(order.Cancelled, "", "", nil, testNow))
	err = suite.factory.Create().OrderRepository().Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChanges() {
	ctx := context.Background()
	o := suite.newOrder(kernel.PriorityLow, testNow)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderReader_SortsByPriorityThenNewest() {
	ctx := context.Background()
	repo := suite.factory.Create().OrderRepository()

	oldUrgent := suite.newOrder(kernel.PriorityUrgent, testNow)
	newLow := suite.newOrder(kernel.PriorityLow, testNow.Add(2*time.Hour))
	newUrgent := suite.newOrder(kernel.PriorityUrgent, testNow.Add(time.Hour))
	for _, o := range []*order.Order{oldUrgent, newLow, newUrgent} {
		suite.Require().NoError(repo.Add(ctx, o))
	}

	list, err := suite.reads.ListOrders(ctx, ports.OrderFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(list, 3)
	suite.Equal(newUrgent.ID(), list[0].ID)
	suite.Equal(oldUrgent.ID(), list[1].ID)
	suite.Equal(newLow.ID(), list[2].ID)

	pending, err := suite.reads.ListOrders(ctx, ports.OrderFilter{Statuses: []order.Status{order.Pending}, Limit: 1, Offset: 1})
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(oldUrgent.ID(), pending[0].ID)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestNotificationRepository_DeduplicatesPerRecipient() {
	ctx := context.Background()
	repo := suite.factory.Create().NotificationRepository()
	recipient := kernel.NewUUID()

	draft := notification.Snapshot{
		RecipientID: recipient,
		Type:        notification.TypeWorkflow,
		Message:     "Escalated",
		Metadata:    map[string]string{"rule": "escalate"},
		DedupKey:    "event:1",
	}
	first, err := notification.NewNotification(kernel.NewUUID(), draft, testNow)
	suite.Require().NoError(err)
	duplicate, err := notification.NewNotification(kernel.NewUUID(), draft, testNow.Add(time.Second))
	suite.Require().NoError(err)

	created, err := repo.Add(ctx, first)
	suite.Require().NoError(err)
	suite.True(created)

	created, err = repo.Add(ctx, duplicate)
	suite.Require().NoError(err)
	suite.False(created)

	loaded, err := repo.Get(ctx, first.ID())
	suite.Require().NoError(err)
	loaded.MarkRead(testNow.Add(time.Minute))
	suite.Require().NoError(repo.Update(ctx, loaded))

	unread, err := suite.reads.ListNotifications(ctx, ports.NotificationFilter{RecipientID: recipient, UnreadOnly: true})
	suite.Require().NoError(err)
	suite.Empty(unread)

	all, err := suite.reads.ListNotifications(ctx, ports.NotificationFilter{RecipientID: recipient})
	suite.Require().NoError(err)
	suite.Require().Len(all, 1)
	suite.Equal("escalate", all[0].Metadata["rule"])
	suite.NotNil(all[0].ReadAt)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestNotificationRepository_DuplicateKeepsTransactionUsable() {
	ctx := context.Background()
	recipient := kernel.NewUUID()
	draft := notification.Snapshot{RecipientID: recipient, Type: notification.TypeNewOrder, Message: "New order", DedupKey: "event:2"}

	first, err := notification.NewNotification(kernel.NewUUID(), draft, testNow)
	suite.Require().NoError(err)
	_, err = suite.factory.Create().NotificationRepository().Add(ctx, first)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	dup, err := notification.NewNotification(kernel.NewUUID(), draft, testNow)
	suite.Require().NoError(err)
	created, err := uow.NotificationRepository().Add(ctx, dup)
	suite.Require().NoError(err)
	suite.False(created)

	o := suite.newOrder(kernel.PriorityLow, testNow)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	_, err = suite.reads.FindOrder(ctx, o.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRuleRepository_CountsExecutionsAndKeepsThemOnUpdate() {
	ctx := context.Background()
	repo := suite.factory.Create().WorkflowRuleRepository()

	rule, err := workflow.NewRule(kernel.NewUUID(), workflow.Definition{
		Name:    "Escalate games",
		Trigger: order.EventCreated,
		Conditions: workflow.Conditions{
			{Field: workflow.FieldOrderType, Comparator: workflow.Eq, Value: "game"},
		},
		Actions: []workflow.Action{
			workflow.SetPriorityAction{Priority: kernel.PriorityHigh},
		},
		IsActive: true,
	}, nil, testNow)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, rule))

	suite.Require().NoError(repo.RecordExecution(ctx, rule.ID(), testNow.Add(time.Minute)))
	suite.Require().NoError(repo.RecordExecution(ctx, rule.ID(), testNow.Add(2*time.Minute)))

	rule.SetActive(false, testNow.Add(3*time.Minute))
	suite.Require().NoError(repo.Update(ctx, rule))

	loaded, err := repo.Get(ctx, rule.ID())
	suite.Require().NoError(err)
	suite.Equal(2, loaded.ExecutionCount())
	suite.False(loaded.IsActive())
	suite.Require().NotNil(loaded.LastExecutedAt())
	suite.WithinDuration(testNow.Add(2*time.Minute), *loaded.LastExecutedAt(), time.Microsecond)

	active, err := repo.ListActive(ctx)
	suite.Require().NoError(err)
	suite.Empty(active)

	suite.Require().NoError(repo.Delete(ctx, rule.ID()))
	suite.Require().ErrorIs(repo.Delete(ctx, rule.ID()), errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRuleExecutionLog_ListsFailuresNewestFirst() {
	ctx := context.Background()
	log := suite.factory.Create().RuleExecutionLog()
	ruleID, orderID := kernel.NewUUID(), kernel.NewUUID()

	for i, at := range []time.Time{testNow, testNow.Add(time.Hour)} {
		suite.Require().NoError(log.Record(ctx, workflow.Execution{
			ID:        kernel.NewUUID(),
			RuleID:    ruleID,
			EventID:   kernel.NewUUID(),
			EventType: order.EventCreated,
			OrderID:   orderID,
			Succeeded: i == 0,
			Failures: []workflow.ActionFailure{
				{ActionIndex: i, ActionKind: workflow.KindNotify, Fatal: i == 1, Cause: "recipient unknown"},
			},
			ExecutedAt: at,
		}))
	}

	failures, err := suite.reads.ListFailures(ctx, ports.FailureFilter{RuleID: &ruleID})
	suite.Require().NoError(err)
	suite.Require().Len(failures, 2)
	suite.Equal(1, failures[0].ActionIndex)
	suite.True(failures[0].Fatal)
	suite.Equal(orderID, failures[1].OrderID)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTaskRepository_OverdueAndListing() {
	ctx := context.Background()
	repo := suite.factory.Create().TaskRepository()
	assignee := kernel.NewUUID()

	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)
	late, err := task.NewTask(kernel.NewUUID(), task.Draft{Title: "Late", Priority: kernel.PriorityHigh, DueDate: &past, AssignedAdmin: &assignee}, testNow.Add(-2*time.Hour))
	suite.Require().NoError(err)
	upcoming, err := task.NewTask(kernel.NewUUID(), task.Draft{Title: "Upcoming", Priority: kernel.PriorityLow, DueDate: &future, AssignedAdmin: &assignee}, testNow)
	suite.Require().NoError(err)
	undated, err := task.NewTask(kernel.NewUUID(), task.Draft{Title: "Someday", Priority: kernel.PriorityLow, AssignedAdmin: &assignee}, testNow)
	suite.Require().NoError(err)
	for _, t := range []*task.Task{undated, upcoming, late} {
		suite.Require().NoError(repo.Add(ctx, t))
	}

	overdue, err := repo.ListOverdue(ctx, testNow)
	suite.Require().NoError(err)
	suite.Require().Len(overdue, 1)
	suite.Equal(late.ID(), overdue[0].ID())

	hours := decimal.RequireFromString("1.5")
	suite.Require().NoError(late.UpdateStatus(task.StatusCompleted, &hours, testNow))
	suite.Require().NoError(repo.Update(ctx, late))

	overdue, err = repo.ListOverdue(ctx, testNow)
	suite.Require().NoError(err)
	suite.Empty(overdue)

	list, err := suite.reads.ListTasks(ctx, ports.TaskFilter{AssignedAdmin: &assignee})
	suite.Require().NoError(err)
	suite.Require().Len(list, 3)
	suite.Equal(late.ID(), list[0].ID)
	suite.Equal(undated.ID(), list[2].ID)

	open, err := suite.reads.ListTasks(ctx, ports.TaskFilter{Statuses: []task.Status{task.StatusPending}})
	suite.Require().NoError(err)
	suite.Len(open, 2)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAdminRepository_HidesInactive() {
	ctx := context.Background()
	repo := suite.factory.Create().AdminRepository()

	active, err := admin.NewAdmin(kernel.NewUUID(), "Ada", "ada@example.com", true)
	suite.Require().NoError(err)
	retired, err := admin.NewAdmin(kernel.NewUUID(), "Bob", "bob@example.com", false)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, active))
	suite.Require().NoError(repo.Add(ctx, retired))

	_, err = repo.Get(ctx, retired.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	list, err := repo.ListActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal(active.ID(), list[0].ID())
}

func TestUnitOfWorkIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration tests need Docker")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
