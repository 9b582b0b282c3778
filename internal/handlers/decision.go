package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"decisionshub/internal/db"
	"decisionshub/internal/models"
	"decisionshub/internal/services"
	"decisionshub/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DecisionHandler struct {
	runner *services.AcceptanceRunner
}

func NewDecisionHandler() *DecisionHandler {
	return &DecisionHandler{
		runner: services.GetAcceptanceRunner(),
	}
}

func validTitle(title string) bool {
	n := len([]rune(title))
	return n >= 4 && n <= 20
}

// Create 发起新决策 (POST /decisions)
// multipart 表单：title 必填 4-20 字，description 可选，image 可选
func (h *DecisionHandler) Create(c *gin.Context) {
	user := currentUser(c)

	title := strings.TrimSpace(c.PostForm("title"))
	if !validTitle(title) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "标题长度必须在 4-20 字之间"})
		return
	}

	decision := models.Decision{
		Title:  title,
		UserID: user.ID,
	}
	if description := c.PostForm("description"); description != "" {
		decision.Description = &description
	}

	// 配图可选，存对象存储，库里只记相对 URL
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		storage, err := services.GetImageStorage()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "图片存储不可用"})
			return
		}
		url, err := storage.Upload(c.Request.Context(), file, header)
		if err != nil {
			respondError(c, err)
			return
		}
		decision.ImageURL = &url
	}

	if err := db.DB.Create(&decision).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "已存在同名决策"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建失败"})
		return
	}
	c.JSON(http.StatusCreated, decision)
}

// List 决策列表 (GET /decisions)
// 支持 status 过滤和 search 检索。带搜索词时按全文检索与
// 标题相似度的较大值排序（相似度按 0.5 权重），否则按时间倒序。
func (h *DecisionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	query := db.DB.Model(&models.Decision{}).Where("is_active = ?", true)

	if status := c.Query("status"); status != "" {
		if status != models.DecisionStatusInProcessing && status != models.DecisionStatusReady {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status 只能是 in_processing 或 ready"})
			return
		}
		query = query.Where("status = ?", status)
	}

	search := strings.TrimSpace(c.Query("search"))
	if search != "" {
		query = query.Where(
			`(tsv @@ websearch_to_tsquery('russian', ?)
				OR tsv @@ websearch_to_tsquery('english', ?)
				OR title % ?
				OR similarity(title, ?) > 0.15)`,
			search, search, search, search,
		).Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL: `greatest(
					ts_rank_cd(tsv, websearch_to_tsquery('russian', ?)),
					ts_rank_cd(tsv, websearch_to_tsquery('english', ?)),
					similarity(title, ?) * 0.5
				) DESC`,
				Vars:               []interface{}{search, search, search},
				WithoutParentheses: true,
			},
		})
	} else {
		query = query.Order("created_at DESC")
	}

	var decisions []models.Decision
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&decisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	fillDecisionVoteCounts(decisions)

	c.JSON(http.StatusOK, gin.H{
		"page":       page,
		"page_size":  pageSize,
		"items":      decisions,
		"total_size": len(decisions),
	})
}

// fillDecisionVoteCounts 批量填充决策的赞成/反对票数
func fillDecisionVoteCounts(decisions []models.Decision) {
	if len(decisions) == 0 {
		return
	}

	ids := make([]uint, len(decisions))
	for i, d := range decisions {
		ids[i] = d.ID
	}

	type countResult struct {
		DecisionID uint
		IsLike     bool
		Count      int64
	}
	var results []countResult
	db.DB.Model(&models.DecisionVote{}).
		Select("decision_id, is_like, COUNT(*) as count").
		Where("decision_id IN ?", ids).
		Group("decision_id, is_like").
		Scan(&results)

	likes := make(map[uint]int64)
	dislikes := make(map[uint]int64)
	for _, r := range results {
		if r.IsLike {
			likes[r.DecisionID] = r.Count
		} else {
			dislikes[r.DecisionID] = r.Count
		}
	}
	for i := range decisions {
		decisions[i].Like = likes[decisions[i].ID]
		decisions[i].Dislike = dislikes[decisions[i].ID]
	}
}

// Detail 决策详情，带票数和激活的历史快照 (GET /decisions/:id)
func (h *DecisionHandler) Detail(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	decision, histories, err := services.GetDecisionDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if decision.Description != nil {
		decision.DescriptionHTML = utils.RenderMarkdown(*decision.Description)
	}
	c.JSON(http.StatusOK, gin.H{
		"decision": decision,
		"history":  histories,
	})
}

type decisionUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Status      *string `json:"status"`
}

// Update 编辑决策，仅限作者 (PUT /decisions/:id)
// 请求里带 status=ready 时保存后立刻走采纳流程
func (h *DecisionHandler) Update(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	var req decisionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if !validTitle(trimmed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "标题长度必须在 4-20 字之间"})
			return
		}
		req.Title = &trimmed
	}

	decision, err := services.UpdateDecision(currentUser(c), id, services.DecisionUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// Accept 采纳决策，仅限管理员 (POST /decisions/:id/accept)
// async=true 时投递给任务队列，立即返回 202
func (h *DecisionHandler) Accept(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}

	if c.Query("async") == "true" {
		h.runner.Dispatch(id)
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		return
	}

	if err := services.AcceptDecision(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "决策已采纳"})
}

// Rollback 把历史快照的内容回滚到决策上 (POST /decisions/:id/rollback/:history_id)
func (h *DecisionHandler) Rollback(c *gin.Context) {
	id := paramID(c, "id")
	historyID := paramID(c, "history_id")
	if id == 0 || historyID == 0 {
		badID(c)
		return
	}
	decision, err := services.RollbackDecision(currentUser(c), id, historyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// Deactivate 停用决策并级联停用其历史快照 (DELETE /decisions/:id)
func (h *DecisionHandler) Deactivate(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	if err := services.DeactivateDecision(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "决策已停用"})
}

// vote 处理决策投票并返回最新票数
func (h *DecisionHandler) vote(c *gin.Context, isLike bool) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	state, err := services.SetDecisionVote(currentUser(c).ID, id, isLike)
	if err != nil {
		respondError(c, err)
		return
	}
	likes, dislikes, err := services.DecisionVoteCounts(db.DB, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "like": likes, "dislike": dislikes})
}

// Like 赞成 (POST /decisions/:id/like)
func (h *DecisionHandler) Like(c *gin.Context) {
	h.vote(c, true)
}

// Dislike 反对 (POST /decisions/:id/dislike)
func (h *DecisionHandler) Dislike(c *gin.Context) {
	h.vote(c, false)
}
