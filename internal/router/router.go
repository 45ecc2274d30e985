package router

import (
	"Atelier_Room/internal/handler"
	"Atelier_Room/internal/middleware"
	"Atelier_Room/internal/pkg"
	"Atelier_Room/internal/service"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps 路由层需要的全部外部依赖，main 里组装好传进来
type Deps struct {
	DB    *gorm.DB
	RDB   *redisv9.Client
	Cfg   pkg.Config
	Store *pkg.ObjectStore
}

func Setup(d Deps) *gin.Engine {
	emailSvc := service.NewEmailService(d.Cfg.SMTP, d.RDB)
	userSvc := service.NewUserService(d.DB, d.RDB, emailSvc)
	roomSvc := service.NewRoomService(d.DB)
	memberSvc := service.NewMemberService(d.DB, d.RDB)
	requestSvc := service.NewJoinRequestService(d.DB, d.RDB)
	postSvc := service.NewPostService(d.DB)
	reportSvc := service.NewReportService(d.DB)
	likeSvc := service.NewRoomLikeService(d.DB, d.RDB)
	attachSvc := service.NewAttachmentService(d.DB, d.Store)

	emailH := handler.NewEmailHandler(emailSvc)
	userH := handler.NewUserHandler(userSvc)
	roomH := handler.NewRoomHandler(roomSvc, d.Cfg.SweepKey)
	memberH := handler.NewMemberHandler(memberSvc)
	requestH := handler.NewJoinRequestHandler(requestSvc)
	postH := handler.NewPostHandler(postSvc)
	reportH := handler.NewReportHandler(reportSvc)
	likeH := handler.NewRoomLikeHandler(likeSvc)
	attachH := handler.NewAttachmentHandler(attachSvc)

	r := gin.Default()
	authed := middleware.Auth(d.RDB)

	api := r.Group("/api")
	{
		api.POST("/email/code", emailH.SendCode)

		user := api.Group("/user")
		{
			user.POST("/register", userH.Register)
			user.POST("/login", userH.Login)
			user.POST("/reset-password", userH.ResetPassword)
			user.POST("/logout", authed, userH.Logout)
			user.POST("/change-password", authed, userH.ChangePassword)
			user.POST("/change-username", authed, userH.ChangeUsername)
			user.POST("/delete", authed, userH.DeleteAccount)
		}

		api.POST("/token/refresh", userH.TokenRefresh)

		room := api.Group("/room", authed)
		{
			room.POST("/create", roomH.Create)
			room.GET("/list", roomH.List)
			room.GET("/:id", roomH.Get)
			room.POST("/:id/close", roomH.Close)
			room.POST("/:id/delete", roomH.Delete)

			room.POST("/:id/join", memberH.Join)
			room.POST("/:id/supporter-join", memberH.JoinSupporter)
			room.POST("/:id/invite", memberH.RedeemInvite)
			room.POST("/:id/leave", memberH.Leave)
			room.GET("/:id/members", memberH.List)

			room.POST("/:id/core-request", requestH.RequestCore)
			room.GET("/:id/requests", requestH.ListPending)

			room.POST("/:id/like", likeH.Like)
			room.POST("/:id/unlike", likeH.Unlike)
			room.GET("/:id/liked", likeH.IsLiked)
			room.GET("/:id/like-count", likeH.Count)
		}

		request := api.Group("/request", authed)
		{
			request.POST("/:id/approve", requestH.Approve)
			request.POST("/:id/reject", requestH.Reject)
		}

		post := api.Group("/post", authed)
		{
			post.POST("/create", postH.Create)
			post.DELETE("/:id", postH.Delete)
			post.POST("/:id/hide", postH.Hide)
			post.POST("/:id/unhide", postH.Unhide)
			post.GET("/list/:id", postH.ListBoard)
			post.POST("/:id/attachment", attachH.Upload)
		}

		api.POST("/attachment/url", authed, attachH.SignedURL)
		api.POST("/report", authed, reportH.Create)

		// 到期清扫走共享密钥，不走用户鉴权
		api.GET("/internal/sweep", roomH.Sweep)
	}

	return r
}
