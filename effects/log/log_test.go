package log_test

import (
	"context"
	"testing"

	"github.com/on-the-ground/effect_stack_go/effects/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogEffect_RoutesLevelsToZap(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	ctx, endOfLogHandler := log.WithZapEffectHandler(context.Background(), logger)
	defer endOfLogHandler()

	log.Eff(ctx, log.LogInfo, "hello", map[string]interface{}{"k": "v"})
	log.Eff(ctx, log.LogWarn, "careful", nil)
	log.Eff(ctx, log.LogError, "broken", nil)
	log.Eff(ctx, log.LogDebug, "details", nil)

	entries := observed.All()
	require.Len(t, entries, 4)

	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "hello", entries[0].Message)
	require.Equal(t, "v", entries[0].ContextMap()["k"])

	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	require.Equal(t, zapcore.DebugLevel, entries[3].Level)
}

func TestLogEffect_UnknownLevelDefaultsToInfo(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	ctx, endOfLogHandler := log.WithZapEffectHandler(context.Background(), zap.New(core))
	defer endOfLogHandler()

	log.Eff(ctx, log.Level("verbose"), "odd level", nil)

	entries := observed.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestLogEffect_InnermostScopeWins(t *testing.T) {
	outerCore, outerLogs := observer.New(zapcore.DebugLevel)
	innerCore, innerLogs := observer.New(zapcore.DebugLevel)

	ctx, endOfOuter := log.WithZapEffectHandler(context.Background(), zap.New(outerCore))
	defer endOfOuter()

	innerCtx, endOfInner := log.WithZapEffectHandler(ctx, zap.New(innerCore))

	log.Eff(innerCtx, log.LogInfo, "routed inward", nil)
	require.Equal(t, 0, outerLogs.Len())
	require.Equal(t, 1, innerLogs.Len())

	restored := endOfInner()
	log.Eff(restored, log.LogInfo, "routed outward", nil)
	require.Equal(t, 1, outerLogs.Len())
}

func TestLogEffect_FallsBackToGlobalLogger(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	defer undo()

	// no log scope anywhere: the payload's own interpretation kicks in
	log.Eff(context.Background(), log.LogInfo, "global fallback", nil)

	entries := observed.All()
	require.Len(t, entries, 1)
	require.Equal(t, "global fallback", entries[0].Message)
}

func TestWithTestEffectHandler(t *testing.T) {
	ctx, endOfLogHandler := log.WithTestEffectHandler(context.Background())
	defer endOfLogHandler()

	// exercises the console pipeline end to end
	log.Eff(ctx, log.LogDebug, "console", map[string]interface{}{"n": 1})
}
