package handlers

import (
	"net/http"

	"decisionshub/internal/db"
	"decisionshub/internal/models"
	"decisionshub/internal/services"
	"decisionshub/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type commentCreateRequest struct {
	Text       string `json:"text" binding:"required"`
	DecisionID uint   `json:"decision_id" binding:"required"`
	ParentID   *uint  `json:"parent_id"`
}

// Create 发表评论或回复 (POST /comments)
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text 和 decision_id 不能为空"})
		return
	}

	comment, err := services.CreateComment(
		currentUser(c).ID,
		req.DecisionID,
		req.ParentID,
		utils.SanitizeText(req.Text),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// fillCommentVoteCounts 批量填充评论的赞成/反对票数
func fillCommentVoteCounts(comments []models.Comment) {
	if len(comments) == 0 {
		return
	}

	ids := make([]uint, len(comments))
	for i, cm := range comments {
		ids[i] = cm.ID
	}

	type countResult struct {
		CommentID uint
		IsLike    bool
		Count     int64
	}
	var results []countResult
	db.DB.Model(&models.CommentVote{}).
		Select("comment_id, is_like, COUNT(*) as count").
		Where("comment_id IN ?", ids).
		Group("comment_id, is_like").
		Scan(&results)

	likes := make(map[uint]int64)
	dislikes := make(map[uint]int64)
	for _, r := range results {
		if r.IsLike {
			likes[r.CommentID] = r.Count
		} else {
			dislikes[r.CommentID] = r.Count
		}
	}
	for i := range comments {
		comments[i].Like = likes[comments[i].ID]
		comments[i].Dislike = dislikes[comments[i].ID]
	}
}

// listComments 公共的评论列表查询，键集分页，每页 50 条
func listComments(c *gin.Context, cond string, id uint) {
	query := db.DB.Where(cond, id).Where("status = ?", true)
	if lastID := c.Query("last_id"); lastID != "" {
		query = query.Where("id > ?", lastID)
	}

	var comments []models.Comment
	if err := query.Order("created_at ASC").Limit(50).Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	fillCommentVoteCounts(comments)
	c.JSON(http.StatusOK, comments)
}

// ListByDecision 某决策下的评论 (GET /comments/decision/:id)
func (h *CommentHandler) ListByDecision(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	listComments(c, "decision_id = ?", id)
}

// Replies 某评论的回复 (GET /comments/:id/replies)
func (h *CommentHandler) Replies(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	listComments(c, "parent_id = ?", id)
}

type commentUpdateRequest struct {
	Text string `json:"text" binding:"required"`
}

// Update 修改评论内容，仅限作者 (PUT /comments/:id)
func (h *CommentHandler) Update(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	var req commentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text 不能为空"})
		return
	}
	comment, err := services.UpdateCommentText(currentUser(c), id, utils.SanitizeText(req.Text))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete 软删除评论 (DELETE /comments/:id)
func (h *CommentHandler) Delete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	if err := services.DeleteComment(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HardDelete 物理删除评论，要求已先软删除 (DELETE /comments/:id/hard)
func (h *CommentHandler) HardDelete(c *gin.Context) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	if err := services.HardDeleteComment(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "message": "评论已删除"})
}

// vote 处理评论投票并返回最新票数
func (h *CommentHandler) vote(c *gin.Context, isLike bool) {
	id := paramID(c, "id")
	if id == 0 {
		badID(c)
		return
	}
	state, err := services.SetCommentVote(currentUser(c).ID, id, isLike)
	if err != nil {
		respondError(c, err)
		return
	}
	likes, dislikes, err := services.CommentVoteCounts(db.DB, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state, "like": likes, "dislike": dislikes})
}

// Like 赞 (POST /comments/:id/like)
func (h *CommentHandler) Like(c *gin.Context) {
	h.vote(c, true)
}

// Dislike 踩 (POST /comments/:id/dislike)
func (h *CommentHandler) Dislike(c *gin.Context) {
	h.vote(c, false)
}
