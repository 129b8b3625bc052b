package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"melbgo/balance"
	"melbgo/state"
	"melbgo/suggest"
	"melbgo/trip"
)

// Handler exposes the trip state over REST and websocket. Mutations go
// through the controller, so a read-only caller gets the same silent
// no-op a read-only device gets.
type Handler struct {
	controller *state.Controller
	suggester  suggest.Suggester
}

func NewHandler(controller *state.Controller, suggester suggest.Suggester) *Handler {
	return &Handler{controller: controller, suggester: suggester}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/trip", h.getTrip)
		api.GET("/trip/ws", h.streamTrip)
		api.GET("/trip/links", h.getLinks)
		api.GET("/trip/today", h.getToday)
		api.GET("/trip/balance", h.getBalance)
		api.GET("/trip/convert", h.convert)

		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)

		api.POST("/trip/days/:day/events", h.saveEvent)
		api.DELETE("/trip/days/:day/events/:id", h.deleteEvent)
		api.PUT("/trip/days/:day/tips", h.setDayTips)

		api.POST("/trip/expenses", h.addExpense)
		api.DELETE("/trip/expenses/:id", h.deleteExpense)

		api.POST("/trip/todos", h.addTodo)
		api.POST("/trip/todos/:id/toggle", h.toggleTodo)
		api.DELETE("/trip/todos/:id", h.deleteTodo)

		api.POST("/trip/todo-categories", h.addTodoCategory)
		api.DELETE("/trip/todo-categories/:id", h.deleteTodoCategory)
		api.POST("/trip/expense-categories", h.addExpenseCategory)
		api.DELETE("/trip/expense-categories/:id", h.deleteExpenseCategory)

		api.POST("/trip/links", h.saveLink)
		api.POST("/trip/links/delete", h.deleteLink)

		api.POST("/suggest", h.suggestTip)
	}
}

func (h *Handler) getTrip(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.State())
}

func (h *Handler) getLinks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"links": h.controller.Links()})
}

func (h *Handler) getToday(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	c.JSON(http.StatusOK, gin.H{"todayIndex": h.controller.TodayIndex(date)})
}

func (h *Handler) getBalance(c *gin.Context) {
	rate := balance.DefaultRate
	if raw := c.Query("rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate must be a positive number"})
			return
		}
		rate = parsed
	}

	doc := h.controller.Document()
	balances := balance.Balances(doc.Expenses, rate)
	plan, err := balance.Plan(balances)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"rate":     rate,
		"balances": balances,
		"plan":     plan,
	}
	if s := balance.TwoUserSettlement(balances, rate); s != nil {
		resp["settlement"] = gin.H{
			"from":      s.From,
			"to":        s.To,
			"amountAud": s.AmountAUD,
			"amountTwd": s.AmountTWD,
			"summary":   s.String(),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// convert is the scratch AUD/TWD calculator. It shares the rate with
// the balance view but never touches the ledger.
func (h *Handler) convert(c *gin.Context) {
	rate := balance.DefaultRate
	if raw := c.Query("rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate must be a positive number"})
			return
		}
		rate = parsed
	}
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}

	switch trip.Currency(c.DefaultQuery("from", string(trip.AUD))) {
	case trip.AUD:
		c.JSON(http.StatusOK, gin.H{"rate": rate, "aud": amount, "twd": balance.ToTWD(amount, rate)})
	case trip.TWD:
		c.JSON(http.StatusOK, gin.H{"rate": rate, "aud": balance.ToAUD(amount, rate), "twd": amount})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be AUD or TWD"})
	}
}

type loginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "secret is required"})
		return
	}
	ok := h.controller.Login(req.Secret)
	c.JSON(http.StatusOK, gin.H{"authorized": ok, "status": h.controller.Status()})
}

type logoutRequest struct {
	Confirm bool `json:"confirm"`
}

// logout drops to read-only only when the caller confirmed, mirroring
// the confirm dialog of the client app.
func (h *Handler) logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logout must be confirmed"})
		return
	}
	h.controller.Logout()
	c.JSON(http.StatusOK, gin.H{"status": h.controller.Status()})
}

func (h *Handler) saveEvent(c *gin.Context) {
	dayIndex, ok := h.dayParam(c)
	if !ok {
		return
	}
	var ev trip.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}
	if ev.Title == "" || ev.Time == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event title and time are required"})
		return
	}
	if err := h.controller.SaveEvent(dayIndex, ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

func (h *Handler) deleteEvent(c *gin.Context) {
	dayIndex, ok := h.dayParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !verifyID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	if err := h.controller.DeleteEvent(dayIndex, id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

type tipsRequest struct {
	Tips string `json:"tips"`
}

func (h *Handler) setDayTips(c *gin.Context) {
	dayIndex, ok := h.dayParam(c)
	if !ok {
		return
	}
	var req tipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tips payload"})
		return
	}
	if err := h.controller.SetDayTips(dayIndex, req.Tips); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

func (h *Handler) addExpense(c *gin.Context) {
	var e trip.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense payload"})
		return
	}
	if e.Currency != trip.AUD && e.Currency != trip.TWD {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency must be AUD or TWD"})
		return
	}
	if err := h.controller.AddExpense(e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

func (h *Handler) deleteExpense(c *gin.Context) {
	id := c.Param("id")
	if !verifyID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}
	h.controller.DeleteExpense(id)
	h.okState(c)
}

type todoRequest struct {
	Text     string `json:"text" binding:"required"`
	Category string `json:"category"`
}

func (h *Handler) addTodo(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "todo text is required"})
		return
	}
	if err := h.controller.AddTodo(req.Text, req.Category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

func (h *Handler) toggleTodo(c *gin.Context) {
	id := c.Param("id")
	if !verifyID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo id"})
		return
	}
	h.controller.ToggleTodo(id)
	h.okState(c)
}

func (h *Handler) deleteTodo(c *gin.Context) {
	id := c.Param("id")
	if !verifyID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo id"})
		return
	}
	h.controller.DeleteTodo(id)
	h.okState(c)
}

type categoryRequest struct {
	Label string `json:"label" binding:"required"`
	Color string `json:"color"`
}

func (h *Handler) addTodoCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category label is required"})
		return
	}
	if !verifyShortText(req.Label, 50) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category label"})
		return
	}
	cat, err := h.controller.AddTodoCategory(req.Label, req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat, "state": h.controller.State()})
}

func (h *Handler) deleteTodoCategory(c *gin.Context) {
	id := c.Param("id")
	if !verifyID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	if err := h.controller.DeleteTodoCategory(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

func (h *Handler) addExpenseCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category label is required"})
		return
	}
	if !verifyShortText(req.Label, 50) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category label"})
		return
	}
	cat, err := h.controller.AddExpenseCategory(req.Label, req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat, "state": h.controller.State()})
}

func (h *Handler) deleteExpenseCategory(c *gin.Context) {
	id := c.Param("id")
	if !verifyID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	if err := h.controller.DeleteExpenseCategory(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

func (h *Handler) saveLink(c *gin.Context) {
	var ml trip.MergedLink
	if err := c.ShouldBindJSON(&ml); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link payload"})
		return
	}
	if err := h.controller.SaveLink(ml); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

func (h *Handler) deleteLink(c *gin.Context) {
	var ml trip.MergedLink
	if err := c.ShouldBindJSON(&ml); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link payload"})
		return
	}
	if err := h.controller.DeleteLink(ml); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.okState(c)
}

type suggestRequest struct {
	Location  string `json:"locationText"`
	TimeOfDay string `json:"timeOfDayText"`
}

// suggestTip never fails: the suggester degrades to placeholder text on
// any upstream problem.
func (h *Handler) suggestTip(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggest payload"})
		return
	}
	if req.Location == "" {
		req.Location = "Melbourne"
	}
	if req.TimeOfDay == "" {
		req.TimeOfDay = "白天"
	}
	tip := h.suggester.Tip(c.Request.Context(), req.Location, req.TimeOfDay)
	c.JSON(http.StatusOK, gin.H{"suggestion": tip})
}

func (h *Handler) dayParam(c *gin.Context) (int, bool) {
	dayIndex, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day index"})
		return 0, false
	}
	return dayIndex, true
}

func (h *Handler) okState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.controller.State()})
}
