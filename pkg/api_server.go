package pkg

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-graphviz"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gfiorelli/deltarank/utils"
)

type injectResponse struct {
	Time     Time `json:"time"`
	Accepted int  `json:"accepted"`
}

type rankResponse struct {
	Node NodeID `json:"node"`
	Rank int64  `json:"rank"`
}

// RunApiServer exposes the worker's ingestion and reporting endpoints.
// It blocks serving HTTP until the process exits.
func RunApiServer(port int, driver *Driver) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.POST("/edges", func(c echo.Context) error {
		var events []EdgeEvent
		if err := c.Bind(&events); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		t, err := driver.InjectEdges(events)
		if err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		utils.ServerLog("accepted %d edge event(s) at time %d", len(events), t)
		return c.JSON(http.StatusAccepted, injectResponse{Time: t, Accepted: len(events)})
	})

	e.POST("/ranks", func(c echo.Context) error {
		var events []RankEvent
		if err := c.Bind(&events); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		t, err := driver.InjectRanks(events)
		if err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		utils.ServerLog("accepted %d rank event(s) at time %d", len(events), t)
		return c.JSON(http.StatusAccepted, injectResponse{Time: t, Accepted: len(events)})
	})

	// Bulk ingestion of a plain-text edge list, one initial burst.
	e.POST("/graph", func(c echo.Context) error {
		contents, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		events, err := ParseEdgeList(contents)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		t, err := driver.InjectEdges(events)
		if err != nil {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		utils.ServerLog("accepted graph upload of %d edge(s) at time %d", len(events), t)
		return c.JSON(http.StatusAccepted, injectResponse{Time: t, Accepted: len(events)})
	})

	e.GET("/ranks", func(c echo.Context) error {
		snapshot := driver.Snapshot()
		ranks := make([]rankResponse, len(snapshot))
		for i, state := range snapshot {
			ranks[i] = rankResponse{Node: state.Key, Rank: state.Rank}
		}
		return c.JSON(http.StatusOK, ranks)
	})

	e.GET("/ranks/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "node id must be a non-negative integer")
		}
		rank, ok := driver.RankOf(NodeID(id))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "no state for this node on this worker")
		}
		return c.JSON(http.StatusOK, rankResponse{Node: NodeID(id), Rank: rank})
	})

	e.GET("/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, driver.Stats())
	})

	e.GET("/graph.dot", func(c echo.Context) error {
		blob, err := RenderGraph(driver.Snapshot(), graphviz.XDOT)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.Blob(http.StatusOK, "text/vnd.graphviz", blob)
	})

	e.GET("/graph.svg", func(c echo.Context) error {
		blob, err := RenderGraph(driver.Snapshot(), graphviz.SVG)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.Blob(http.StatusOK, "image/svg+xml", blob)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e.Start(fmt.Sprintf(":%d", port))
}
