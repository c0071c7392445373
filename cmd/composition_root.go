package cmd

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	httpadapter "bitversity/internal/adapters/in/http"
	"bitversity/internal/adapters/out/eventbus"
	"bitversity/internal/adapters/out/memory"
	"bitversity/internal/adapters/out/postgres"
	"bitversity/internal/core/application/automation"
	"bitversity/internal/core/application/usecases/commands"
	"bitversity/internal/core/application/usecases/queries"
	"bitversity/internal/core/ports"
	"bitversity/internal/jobs"
)

// Readers bundles the read-side ports served by one storage driver.
type Readers interface {
	ports.OrderReader
	ports.RuleReader
	ports.RuleFailureReader
	ports.NotificationReader
	ports.TaskReader
}

// Storage is the persistence a composition root runs on.
type Storage struct {
	UoWFactory ports.UnitOfWorkFactory
	Readers    Readers
}

func NewPostgresStorage(db *gorm.DB) Storage {
	return Storage{
		UoWFactory: postgres.NewGormUnitOfWorkFactory(db),
		Readers:    postgres.NewReadModel(db),
	}
}

// NewMemoryStorage keeps everything in process memory; data is lost on exit.
func NewMemoryStorage() Storage {
	store := memory.NewStore()
	return Storage{
		UoWFactory: memory.NewUnitOfWorkFactory(store),
		Readers:    store,
	}
}

type CompositionRoot struct {
	configs    Config
	logger     *slog.Logger
	uowFactory ports.UnitOfWorkFactory
	readers    Readers
	bus        *gochannel.GoChannel
	publisher  *eventbus.Publisher
	ruleCache  *automation.RuleCache
	engine     *automation.Engine
}

func NewCompositionRoot(configs Config, storage Storage, logger *slog.Logger) *CompositionRoot {
	bus := eventbus.NewGoChannel(logger, 256)
	publisher := eventbus.NewPublisher(bus)
	ruleCache := automation.NewRuleCache(storage.UoWFactory, configs.RuleCacheTTL, logger)

	return &CompositionRoot{
		configs:    configs,
		logger:     logger,
		uowFactory: storage.UoWFactory,
		readers:    storage.Readers,
		bus:        bus,
		publisher:  publisher,
		ruleCache:  ruleCache,
		engine:     automation.NewEngine(storage.UoWFactory, ruleCache, publisher, configs.ActionTimeout, logger),
	}
}

func (c *CompositionRoot) CreateHTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		TransitionOrder:     c.CreateTransitionOrderCommandHandler(),
		SetOrderPrice:       c.CreateSetOrderPriceCommandHandler(),
		AssignOrder:         c.CreateAssignOrderCommandHandler(),
		UpdatePaymentStatus: c.CreateUpdatePaymentStatusCommandHandler(),
		BulkOrders:          c.CreateBulkOrderCommandHandler(),
		CreateRule:          commands.NewCreateWorkflowRuleCommandHandler(c.ruleUoWFactory(), c.ruleCache),
		UpdateRule:          commands.NewUpdateWorkflowRuleCommandHandler(c.ruleUoWFactory(), c.ruleCache),
		DeleteRule:          commands.NewDeleteWorkflowRuleCommandHandler(c.ruleUoWFactory(), c.ruleCache),
		ToggleRule:          commands.NewToggleWorkflowRuleCommandHandler(c.ruleUoWFactory(), c.ruleCache),
		MarkRead:            commands.NewMarkNotificationReadCommandHandler(c.notificationUoWFactory()),
		CreateTask:          commands.NewCreateTaskCommandHandler(c.taskUoWFactory(), c.logger),
		UpdateTaskStatus:    commands.NewUpdateTaskStatusCommandHandler(c.taskUoWFactory()),
		GetOrder:            queries.NewGetOrderQueryHandler(c.readers),
		ListOrders:          queries.NewListOrdersQueryHandler(c.readers),
		ListRules:           queries.NewListWorkflowRulesQueryHandler(c.readers),
		ListRuleFailures:    queries.NewListRuleFailuresQueryHandler(c.readers),
		ListNotifications:   queries.NewListNotificationsQueryHandler(c.readers),
		ListTasks:           queries.NewListTasksQueryHandler(c.readers),
	}
}

// CreateRouter builds the echo instance serving the API.
func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	return httpadapter.NewRouter(ctx, httpadapter.NewServer(c.CreateHTTPHandlers()), httpadapter.RouterOptions{
		OpenAPIValidation: c.configs.OpenAPIValidation,
		Logger:            c.logger,
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateSetOrderPriceCommandHandler() commands.SetOrderPriceCommandHandler {
	return commands.NewSetOrderPriceCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.orderUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateUpdatePaymentStatusCommandHandler() commands.UpdatePaymentStatusCommandHandler {
	return commands.NewUpdatePaymentStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateBulkOrderCommandHandler() commands.BulkOrderCommandHandler {
	return commands.NewBulkOrderCommandHandler(c.orderUoWFactory(), c.engine, c.configs.BulkWorkers, c.logger)
}

func (c *CompositionRoot) CreateRemindOverdueTasksCommandHandler() commands.RemindOverdueTasksCommandHandler {
	return commands.NewRemindOverdueTasksCommandHandler(c.taskUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRemindOverdueTasksCommandHandler(),
		c.configs.TaskReminderSchedule,
		c.ruleCache,
		c.configs.RuleCacheTTL,
		c.logger,
	)
}

// CreateAuditSubscriber logs every lifecycle event published on the bus.
func (c *CompositionRoot) CreateAuditSubscriber() *eventbus.AuditSubscriber {
	return eventbus.NewAuditSubscriber(c.bus, nil, c.logger)
}

func (c *CompositionRoot) RuleCache() *automation.RuleCache {
	return c.ruleCache
}

// Close stops the event bus; pending subscribers return.
func (c *CompositionRoot) Close() error {
	return c.publisher.Close()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ruleUoWFactory() commands.RuleUoWFactory {
	return FuncRuleUoWFactory(func() commands.RuleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) taskUoWFactory() commands.TaskUoWFactory {
	return FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRuleUoWFactory func() commands.RuleUoW

func (f FuncRuleUoWFactory) Create() commands.RuleUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncTaskUoWFactory func() commands.TaskUoW

func (f FuncTaskUoWFactory) Create() commands.TaskUoW {
	return f()
}
