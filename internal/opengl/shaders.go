package opengl

import "batch-render/gfx"

// shaderSources maps program names to GLSL 4.10 sources. Attribute
// locations follow the order of the matching BufferLayout.
var shaderSources = map[string]shaderSource{
	gfx.ShaderQuad:           {quadVertSrc, quadFragSrc},
	gfx.ShaderCircle:         {circleVertSrc, circleFragSrc},
	gfx.ShaderLine2D:         {lineVertSrc, lineFragSrc},
	gfx.ShaderSphere:         {sphereVertSrc, sphereFragSrc},
	gfx.ShaderLine3D:         {lineVertSrc, lineFragSrc},
	gfx.ShaderIBLBackground:  {backgroundVertSrc, backgroundFragSrc},
	gfx.ShaderEquirectToCube: {cubemapVertSrc, equirectFragSrc},
	gfx.ShaderIrradiance:     {cubemapVertSrc, irradianceFragSrc},
	gfx.ShaderPrefilter:      {cubemapVertSrc, prefilterFragSrc},
	gfx.ShaderBRDF:           {brdfVertSrc, brdfFragSrc},
}

// ── Renderer2D ────────────────────────────────────────────────────────────────

const quadVertSrc = `
#version 410 core
layout(location = 0) in vec3  a_Position;
layout(location = 1) in vec4  a_Color;
layout(location = 2) in vec2  a_TexCoord;
layout(location = 3) in float a_TexIndex;
layout(location = 4) in float a_TilingFactor;
layout(location = 5) in int   a_EntityID;

uniform mat4 u_ViewProjection;

out vec4      v_Color;
out vec2      v_TexCoord;
out float     v_TexIndex;
out float     v_TilingFactor;
flat out int  v_EntityID;

void main() {
    v_Color        = a_Color;
    v_TexCoord     = a_TexCoord;
    v_TexIndex     = a_TexIndex;
    v_TilingFactor = a_TilingFactor;
    v_EntityID     = a_EntityID;
    gl_Position    = u_ViewProjection * vec4(a_Position, 1.0);
}
` + "\x00"

// quadFragSrc selects the sampler with a loop index so every access is
// dynamically uniform, as GLSL 4.10 requires for sampler arrays.
const quadFragSrc = `
#version 410 core
layout(location = 0) out vec4 o_Color;
layout(location = 1) out int  o_EntityID;

in vec4     v_Color;
in vec2     v_TexCoord;
in float    v_TexIndex;
in float    v_TilingFactor;
flat in int v_EntityID;

uniform sampler2D u_Textures[32];

void main() {
    int  index = int(v_TexIndex + 0.5);
    vec2 uv    = v_TexCoord * v_TilingFactor;
    vec4 texel = vec4(1.0);
    for (int i = 0; i < 32; ++i) {
        if (i == index) {
            texel = texture(u_Textures[i], uv);
        }
    }
    o_Color = texel * v_Color;
    if (o_Color.a == 0.0)
        discard;
    o_EntityID = v_EntityID;
}
` + "\x00"

const circleVertSrc = `
#version 410 core
layout(location = 0) in vec3  a_WorldPosition;
layout(location = 1) in vec3  a_LocalPosition;
layout(location = 2) in vec4  a_Color;
layout(location = 3) in float a_Thickness;
layout(location = 4) in float a_Fade;
layout(location = 5) in int   a_EntityID;

uniform mat4 u_ViewProjection;

out vec3     v_LocalPosition;
out vec4     v_Color;
out float    v_Thickness;
out float    v_Fade;
flat out int v_EntityID;

void main() {
    v_LocalPosition = a_LocalPosition;
    v_Color         = a_Color;
    v_Thickness     = a_Thickness;
    v_Fade          = a_Fade;
    v_EntityID      = a_EntityID;
    gl_Position     = u_ViewProjection * vec4(a_WorldPosition, 1.0);
}
` + "\x00"

const circleFragSrc = `
#version 410 core
layout(location = 0) out vec4 o_Color;
layout(location = 1) out int  o_EntityID;

in vec3     v_LocalPosition;
in vec4     v_Color;
in float    v_Thickness;
in float    v_Fade;
flat in int v_EntityID;

void main() {
    float distance = 1.0 - length(v_LocalPosition);
    float circle   = smoothstep(0.0, v_Fade, distance);
    circle        *= smoothstep(v_Thickness + v_Fade, v_Thickness, distance);
    if (circle == 0.0)
        discard;
    o_Color    = vec4(v_Color.rgb, v_Color.a * circle);
    o_EntityID = v_EntityID;
}
` + "\x00"

// lineVertSrc and lineFragSrc serve both the 2D and 3D line batches.
const lineVertSrc = `
#version 410 core
layout(location = 0) in vec3 a_Position;
layout(location = 1) in vec4 a_Color;
layout(location = 2) in int  a_EntityID;

uniform mat4 u_ViewProjection;

out vec4     v_Color;
flat out int v_EntityID;

void main() {
    v_Color     = a_Color;
    v_EntityID  = a_EntityID;
    gl_Position = u_ViewProjection * vec4(a_Position, 1.0);
}
` + "\x00"

const lineFragSrc = `
#version 410 core
layout(location = 0) out vec4 o_Color;
layout(location = 1) out int  o_EntityID;

in vec4     v_Color;
flat in int v_EntityID;

void main() {
    o_Color    = v_Color;
    o_EntityID = v_EntityID;
}
` + "\x00"

// ── Renderer3D ────────────────────────────────────────────────────────────────

const sphereVertSrc = `
#version 410 core
layout(location = 0) in vec3 a_Position;
layout(location = 1) in vec3 a_Normal;
layout(location = 2) in vec2 a_TexCoord;
layout(location = 3) in int  a_EntityID;

uniform mat4 u_ViewProjection;
uniform mat4 u_ModelMatrix;
uniform mat4 u_NormalMatrix;

out vec3     v_WorldPos;
out vec3     v_Normal;
out vec2     v_TexCoord;
flat out int v_EntityID;

void main() {
    vec4 world  = u_ModelMatrix * vec4(a_Position, 1.0);
    v_WorldPos  = world.xyz;
    v_Normal    = mat3(u_NormalMatrix) * a_Normal;
    v_TexCoord  = a_TexCoord;
    v_EntityID  = a_EntityID;
    gl_Position = u_ViewProjection * world;
}
` + "\x00"

// sphereFragSrc is Cook-Torrance with GGX, Smith-Schlick geometry and
// split-sum image based ambient.
const sphereFragSrc = `
#version 410 core
layout(location = 0) out vec4 o_Color;
layout(location = 1) out int  o_EntityID;

in vec3     v_WorldPos;
in vec3     v_Normal;
in vec2     v_TexCoord;
flat in int v_EntityID;

const int   MAX_POINT_LIGHTS = 64;
const float PI = 3.14159265359;
const float MAX_REFLECTION_LOD = 4.0;

uniform vec3 u_CamPos;

uniform int   u_UseTexture;
uniform vec3  u_Albedo;
uniform float u_Metallic;
uniform float u_Roughness;
uniform float u_Ao;

uniform sampler2D u_AlbedoMap;
uniform sampler2D u_NormalMap;
uniform sampler2D u_MetallicMap;
uniform sampler2D u_RoughnessMap;
uniform sampler2D u_AoMap;

uniform samplerCube irradianceMap;
uniform samplerCube prefilterMap;
uniform sampler2D   brdfLUT;

uniform int  u_PointLightNum;
uniform vec3 u_PointLightPositions[MAX_POINT_LIGHTS];
uniform vec3 u_PointLightColors[MAX_POINT_LIGHTS];
uniform vec3 u_DirectionalLightDirection;
uniform vec3 u_DirectionalLightColor;

vec3 normalFromMap() {
    vec3 tangentNormal = texture(u_NormalMap, v_TexCoord).xyz * 2.0 - 1.0;
    vec3 Q1  = dFdx(v_WorldPos);
    vec3 Q2  = dFdy(v_WorldPos);
    vec2 st1 = dFdx(v_TexCoord);
    vec2 st2 = dFdy(v_TexCoord);
    vec3 N   = normalize(v_Normal);
    vec3 T   = normalize(Q1 * st2.t - Q2 * st1.t);
    vec3 B   = -normalize(cross(N, T));
    return normalize(mat3(T, B, N) * tangentNormal);
}

float distributionGGX(vec3 N, vec3 H, float roughness) {
    float a     = roughness * roughness;
    float a2    = a * a;
    float NdotH = max(dot(N, H), 0.0);
    float denom = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (PI * denom * denom);
}

float geometrySchlickGGX(float NdotV, float roughness) {
    float r = roughness + 1.0;
    float k = (r * r) / 8.0;
    return NdotV / (NdotV * (1.0 - k) + k);
}

float geometrySmith(vec3 N, vec3 V, vec3 L, float roughness) {
    return geometrySchlickGGX(max(dot(N, V), 0.0), roughness) *
           geometrySchlickGGX(max(dot(N, L), 0.0), roughness);
}

vec3 fresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 fresnelSchlickRoughness(float cosTheta, vec3 F0, float roughness) {
    return F0 + (max(vec3(1.0 - roughness), F0) - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 radiance(vec3 N, vec3 V, vec3 L, vec3 lightColor, vec3 albedo, float metallic, float roughness, vec3 F0) {
    vec3  H   = normalize(V + L);
    float NDF = distributionGGX(N, H, roughness);
    float G   = geometrySmith(N, V, L, roughness);
    vec3  F   = fresnelSchlick(max(dot(H, V), 0.0), F0);

    vec3  specular = (NDF * G * F) / (4.0 * max(dot(N, V), 0.0) * max(dot(N, L), 0.0) + 0.0001);
    vec3  kD       = (vec3(1.0) - F) * (1.0 - metallic);
    float NdotL    = max(dot(N, L), 0.0);
    return (kD * albedo / PI + specular) * lightColor * NdotL;
}

void main() {
    vec3  albedo    = u_Albedo;
    float metallic  = u_Metallic;
    float roughness = u_Roughness;
    float ao        = u_Ao;
    vec3  N         = normalize(v_Normal);
    if (u_UseTexture == 1) {
        albedo    = pow(texture(u_AlbedoMap, v_TexCoord).rgb, vec3(2.2));
        metallic  = texture(u_MetallicMap, v_TexCoord).r;
        roughness = texture(u_RoughnessMap, v_TexCoord).r;
        ao        = texture(u_AoMap, v_TexCoord).r;
        N         = normalFromMap();
    }

    vec3 V  = normalize(u_CamPos - v_WorldPos);
    vec3 R  = reflect(-V, N);
    vec3 F0 = mix(vec3(0.04), albedo, metallic);

    vec3 Lo = vec3(0.0);
    for (int i = 0; i < u_PointLightNum && i < MAX_POINT_LIGHTS; ++i) {
        vec3  toLight     = u_PointLightPositions[i] - v_WorldPos;
        float distance    = length(toLight);
        float attenuation = 1.0 / (distance * distance);
        Lo += radiance(N, V, normalize(toLight), u_PointLightColors[i] * attenuation,
                       albedo, metallic, roughness, F0);
    }
    if (dot(u_DirectionalLightDirection, u_DirectionalLightDirection) > 0.0) {
        Lo += radiance(N, V, normalize(-u_DirectionalLightDirection), u_DirectionalLightColor,
                       albedo, metallic, roughness, F0);
    }

    vec3 F  = fresnelSchlickRoughness(max(dot(N, V), 0.0), F0, roughness);
    vec3 kD = (1.0 - F) * (1.0 - metallic);

    vec3 diffuse          = texture(irradianceMap, N).rgb * albedo;
    vec3 prefilteredColor = textureLod(prefilterMap, R, roughness * MAX_REFLECTION_LOD).rgb;
    vec2 brdf             = texture(brdfLUT, vec2(max(dot(N, V), 0.0), roughness)).rg;
    vec3 specular         = prefilteredColor * (F * brdf.x + brdf.y);

    vec3 color = (kD * diffuse + specular) * ao + Lo;
    color = color / (color + vec3(1.0));
    color = pow(color, vec3(1.0 / 2.2));

    o_Color    = vec4(color, 1.0);
    o_EntityID = v_EntityID;
}
` + "\x00"

// ── IBL ───────────────────────────────────────────────────────────────────────

// backgroundVertSrc drops translation from the view and pins depth to 1.
const backgroundVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;

uniform mat4 projection;
uniform mat4 view;

out vec3 WorldPos;

void main() {
    WorldPos = aPos;
    mat4 rotView = mat4(mat3(view));
    vec4 clipPos = projection * rotView * vec4(WorldPos, 1.0);
    gl_Position  = clipPos.xyww;
}
` + "\x00"

const backgroundFragSrc = `
#version 410 core
out vec4 FragColor;
in  vec3 WorldPos;

uniform samplerCube environmentMap;

void main() {
    vec3 envColor = textureLod(environmentMap, WorldPos, 0.0).rgb;
    envColor = envColor / (envColor + vec3(1.0));
    envColor = pow(envColor, vec3(1.0 / 2.2));
    FragColor = vec4(envColor, 1.0);
}
` + "\x00"

const cubemapVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;

uniform mat4 projection;
uniform mat4 view;

out vec3 WorldPos;

void main() {
    WorldPos    = aPos;
    gl_Position = projection * view * vec4(WorldPos, 1.0);
}
` + "\x00"

const equirectFragSrc = `
#version 410 core
out vec4 FragColor;
in  vec3 WorldPos;

uniform sampler2D equirectangularMap;

const vec2 invAtan = vec2(0.1591, 0.3183);

vec2 sampleSphericalMap(vec3 v) {
    vec2 uv = vec2(atan(v.z, v.x), asin(v.y));
    return uv * invAtan + 0.5;
}

void main() {
    vec2 uv = sampleSphericalMap(normalize(WorldPos));
    FragColor = vec4(texture(equirectangularMap, uv).rgb, 1.0);
}
` + "\x00"

const irradianceFragSrc = `
#version 410 core
out vec4 FragColor;
in  vec3 WorldPos;

uniform samplerCube environmentMap;

const float PI = 3.14159265359;

void main() {
    vec3 N     = normalize(WorldPos);
    vec3 up    = vec3(0.0, 1.0, 0.0);
    vec3 right = normalize(cross(up, N));
    up         = normalize(cross(N, right));

    vec3  irradiance  = vec3(0.0);
    float sampleDelta = 0.025;
    float nrSamples   = 0.0;
    for (float phi = 0.0; phi < 2.0 * PI; phi += sampleDelta) {
        for (float theta = 0.0; theta < 0.5 * PI; theta += sampleDelta) {
            vec3 tangentSample = vec3(sin(theta) * cos(phi), sin(theta) * sin(phi), cos(theta));
            vec3 sampleVec = tangentSample.x * right + tangentSample.y * up + tangentSample.z * N;
            irradiance += texture(environmentMap, sampleVec).rgb * cos(theta) * sin(theta);
            nrSamples++;
        }
    }
    FragColor = vec4(PI * irradiance * (1.0 / nrSamples), 1.0);
}
` + "\x00"

// importanceSampleSrc is shared by the prefilter and BRDF programs.
const importanceSampleSrc = `
const float PI = 3.14159265359;

float radicalInverseVdC(uint bits) {
    bits = (bits << 16u) | (bits >> 16u);
    bits = ((bits & 0x55555555u) << 1u) | ((bits & 0xAAAAAAAAu) >> 1u);
    bits = ((bits & 0x33333333u) << 2u) | ((bits & 0xCCCCCCCCu) >> 2u);
    bits = ((bits & 0x0F0F0F0Fu) << 4u) | ((bits & 0xF0F0F0F0u) >> 4u);
    bits = ((bits & 0x00FF00FFu) << 8u) | ((bits & 0xFF00FF00u) >> 8u);
    return float(bits) * 2.3283064365386963e-10;
}

vec2 hammersley(uint i, uint n) {
    return vec2(float(i) / float(n), radicalInverseVdC(i));
}

vec3 importanceSampleGGX(vec2 Xi, vec3 N, float roughness) {
    float a        = roughness * roughness;
    float phi      = 2.0 * PI * Xi.x;
    float cosTheta = sqrt((1.0 - Xi.y) / (1.0 + (a * a - 1.0) * Xi.y));
    float sinTheta = sqrt(1.0 - cosTheta * cosTheta);

    vec3 H       = vec3(cos(phi) * sinTheta, sin(phi) * sinTheta, cosTheta);
    vec3 up      = abs(N.z) < 0.999 ? vec3(0.0, 0.0, 1.0) : vec3(1.0, 0.0, 0.0);
    vec3 tangent = normalize(cross(up, N));
    vec3 bitan   = cross(N, tangent);
    return normalize(tangent * H.x + bitan * H.y + N * H.z);
}
`

const prefilterFragSrc = `
#version 410 core
out vec4 FragColor;
in  vec3 WorldPos;

uniform samplerCube environmentMap;
uniform float roughness;
` + importanceSampleSrc + `
void main() {
    vec3 N = normalize(WorldPos);
    vec3 R = N;
    vec3 V = R;

    const uint SAMPLE_COUNT = 1024u;
    vec3  prefiltered = vec3(0.0);
    float totalWeight = 0.0;
    for (uint i = 0u; i < SAMPLE_COUNT; ++i) {
        vec2 Xi = hammersley(i, SAMPLE_COUNT);
        vec3 H  = importanceSampleGGX(Xi, N, roughness);
        vec3 L  = normalize(2.0 * dot(V, H) * H - V);
        float NdotL = max(dot(N, L), 0.0);
        if (NdotL > 0.0) {
            prefiltered += texture(environmentMap, L).rgb * NdotL;
            totalWeight += NdotL;
        }
    }
    FragColor = vec4(prefiltered / totalWeight, 1.0);
}
` + "\x00"

const brdfVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec2 aTexCoord;

out vec2 TexCoords;

void main() {
    TexCoords   = aTexCoord;
    gl_Position = vec4(aPos, 1.0);
}
` + "\x00"

const brdfFragSrc = `
#version 410 core
out vec2 FragColor;
in  vec2 TexCoords;
` + importanceSampleSrc + `
float geometrySchlickGGX(float NdotV, float roughness) {
    float k = (roughness * roughness) / 2.0;
    return NdotV / (NdotV * (1.0 - k) + k);
}

float geometrySmith(vec3 N, vec3 V, vec3 L, float roughness) {
    return geometrySchlickGGX(max(dot(N, V), 0.0), roughness) *
           geometrySchlickGGX(max(dot(N, L), 0.0), roughness);
}

vec2 integrateBRDF(float NdotV, float roughness) {
    vec3 V = vec3(sqrt(1.0 - NdotV * NdotV), 0.0, NdotV);
    vec3 N = vec3(0.0, 0.0, 1.0);

    float A = 0.0;
    float B = 0.0;
    const uint SAMPLE_COUNT = 1024u;
    for (uint i = 0u; i < SAMPLE_COUNT; ++i) {
        vec2 Xi = hammersley(i, SAMPLE_COUNT);
        vec3 H  = importanceSampleGGX(Xi, N, roughness);
        vec3 L  = normalize(2.0 * dot(V, H) * H - V);

        float NdotL = max(L.z, 0.0);
        float NdotH = max(H.z, 0.0);
        float VdotH = max(dot(V, H), 0.0);
        if (NdotL > 0.0) {
            float G     = geometrySmith(N, V, L, roughness);
            float G_Vis = (G * VdotH) / (NdotH * NdotV);
            float Fc    = pow(1.0 - VdotH, 5.0);
            A += (1.0 - Fc) * G_Vis;
            B += Fc * G_Vis;
        }
    }
    return vec2(A, B) / float(SAMPLE_COUNT);
}

void main() {
    FragColor = integrateBRDF(TexCoords.x, TexCoords.y);
}
` + "\x00"
