package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Registration and update endpoints accept multipart forms so a profile
// image can ride along with the fields. These helpers read typed values out
// of the form; the optional variants report presence so partial updates only
// touch submitted fields.

func formInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		return 0
	}
	return v
}

func formFloat(c *gin.Context, key string) float64 {
	v, err := strconv.ParseFloat(c.PostForm(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func formDate(c *gin.Context, key string) *time.Time {
	raw := c.PostForm(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

func optionalFormString(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func optionalFormInt(c *gin.Context, key string) *int {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func optionalFormFloat(c *gin.Context, key string) *float64 {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optionalFormBool(c *gin.Context, key string) *bool {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
